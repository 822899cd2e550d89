package db

import (
	"fmt"
	"sync"
	"time"

	"github.com/EO-DataHub/eodhp-directory-services/internal/events"
	"github.com/EO-DataHub/eodhp-directory-services/internal/metrics"
	"github.com/EO-DataHub/eodhp-directory-services/models"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// outboxSize is the number of events that may wait for the notifier before
// mutations start to block.
const outboxSize = 256

// DirectoryDB is the in-memory store of users and groups. It is the only
// thing allowed to change either collection. Every operation runs under a
// single lock and validates before it mutates, so a failed call leaves the
// directory exactly as it found it.
//
// Events for successful mutations are queued while the lock is held and
// sent by a single goroutine, so the notifier sees them in commit order.
type DirectoryDB struct {
	Log *zerolog.Logger

	mu     sync.RWMutex
	users  *orderedMap[*models.User]
	groups *orderedMap[models.Group]

	notifier events.Notifier
	outbox   chan events.DirectoryEvent
	done     chan struct{}
	closed   bool
}

// NewDirectoryDB is a constructor that initializes an empty DirectoryDB.
// notifier may be nil, in which case changes are not announced.
func NewDirectoryDB(notifier events.Notifier, log *zerolog.Logger) *DirectoryDB {
	if log == nil {
		nop := zerolog.Nop()
		log = &nop
	}

	d := &DirectoryDB{
		Log:      log,
		users:    newOrderedMap[*models.User](),
		groups:   newOrderedMap[models.Group](),
		notifier: notifier,
	}

	if notifier != nil {
		d.outbox = make(chan events.DirectoryEvent, outboxSize)
		d.done = make(chan struct{})
		go d.dispatch()
	}
	return d
}

// Seed loads the bootstrap groups and then the bootstrap users. It stops at
// the first failure. Seeding does not emit events.
func (d *DirectoryDB) Seed(groups []models.Group, users []models.User) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, g := range groups {
		if err := d.addGroup(g); err != nil {
			return fmt.Errorf("error seeding group %q: %w", g.Name, err)
		}
	}
	for _, u := range users {
		if err := d.addUser(u); err != nil {
			return fmt.Errorf("error seeding user %q: %w", u.UserID, err)
		}
	}

	metrics.SetDirectorySize(d.users.Len(), d.groups.Len())
	d.Log.Info().Int("groups", d.groups.Len()).Int("users", d.users.Len()).Msg("Directory seeded")
	return nil
}

// Counts returns the number of users and groups.
func (d *DirectoryDB) Counts() (users, groups int) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	return d.users.Len(), d.groups.Len()
}

// Close stops announcing changes. Events already queued are sent before
// the notifier is closed. Mutations after Close still apply but emit no
// events.
func (d *DirectoryDB) Close() error {
	d.mu.Lock()
	if d.closed || d.notifier == nil {
		d.closed = true
		d.mu.Unlock()
		return nil
	}
	d.closed = true
	close(d.outbox)
	d.mu.Unlock()

	<-d.done
	d.notifier.Close()
	d.Log.Info().Msg("event notifier closed")
	return nil
}

// record notes the outcome of a mutation. On success it also refreshes the
// size gauges and queues the change for the notifier. The caller must hold
// the write lock.
func (d *DirectoryDB) record(operation string, err error, event events.DirectoryEvent) {
	metrics.ObserveOperation(operation, result(err))

	if err != nil {
		d.Log.Debug().Err(err).Str("operation", operation).Msg("directory operation rejected")
		return
	}

	metrics.SetDirectorySize(d.users.Len(), d.groups.Len())

	if d.notifier == nil || d.closed {
		return
	}

	event.ID = uuid.NewString()
	event.Timestamp = time.Now().UTC().Unix()
	d.outbox <- event
}

// dispatch sends queued events one at a time until the outbox is closed.
func (d *DirectoryDB) dispatch() {
	defer close(d.done)

	for event := range d.outbox {
		if err := d.notifier.Notify(event); err != nil {
			d.Log.Warn().Err(err).Str("action", string(event.Action)).Msg("failed to publish directory event")
		}
	}
}

// checkGroups fails with ErrGroupNotFound on the first group that is not
// in the directory. The caller must hold the lock.
func (d *DirectoryDB) checkGroups(groups []models.Group) error {
	for _, g := range groups {
		if !d.groups.Has(g.Name) {
			return fmt.Errorf("%w: %s", ErrGroupNotFound, g.Name)
		}
	}
	return nil
}

// stored builds the record kept for user: a private copy whose group list
// holds each group once.
func stored(user models.User) *models.User {
	record := &models.User{
		UserID:    user.UserID,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Groups:    make([]models.Group, 0, len(user.Groups)),
	}
	for _, g := range user.Groups {
		record.AddGroup(g)
	}
	return record
}
