// Package cli is responsible for parsing command-line arguments and flags.
// It translates user input from the terminal into a structured app.Config
// object that the application can understand.
package cli
