package commands

import (
	"fmt"
	"strings"

	"github.com/fhunleth/ninebot-ble/internal/ble/registers"
)

// registerArgs maps a CLI-friendly argument name to its RegisterId,
// mirroring the original tool's arg_mapping scheme: the register's
// display name, lower-cased with spaces turned into underscores.
var registerArgs = buildRegisterArgs()

func buildRegisterArgs() map[string]registers.RegisterId {
	m := make(map[string]registers.RegisterId)
	for _, id := range registers.AllControllerRegisters() {
		m[argName(id)] = id
	}
	for _, id := range registers.AllBmsRegisters() {
		m[argName(id)] = id
	}
	return m
}

func argName(id registers.RegisterId) string {
	return strings.ReplaceAll(id.String(), " ", "_")
}

func lookupRegisterArg(name string) (registers.RegisterId, error) {
	id, ok := registerArgs[name]
	if !ok {
		return nil, fmt.Errorf("unknown register %q (see 'ninebot-cli dump' for valid names)", name)
	}
	return id, nil
}
