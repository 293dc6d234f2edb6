// Command ninebot-cli is a command-line client for the Ninebot/Segway
// electric scooter BLE-UART protocol.
package main

import "github.com/fhunleth/ninebot-ble/cmd/ninebot-cli/commands"

func main() {
	commands.Execute()
}
