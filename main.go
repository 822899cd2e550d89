package main

import "github.com/EO-DataHub/eodhp-directory-services/cmd"

func main() {
	cmd.Execute()
}
