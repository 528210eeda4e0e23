// Command pogoda prints the current weather for a city from the terminal.
//
// Usage:
//
//	pogoda --city Warszawa --country Polska
//	pogoda --city "New York" --country USA --json
//	pogoda locations
//
// Configuration is read from the same environment variables (and .env file)
// as the web service; only WEATHERAPI_* settings are used.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
