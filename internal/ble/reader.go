package ble

import (
	"fmt"

	"github.com/fhunleth/ninebot-ble/internal/ble/protocol"
	"github.com/fhunleth/ninebot-ble/internal/ble/registers"
)

// ReadReg reads and decodes one register, issuing one READ request per
// index in the descriptor's IndexLen and accumulating the replies'
// payload bytes before decoding (§4.6). Any L3 timeout inside the loop
// propagates as a read failure; partial bytes are discarded.
func (c *Client) ReadReg(id registers.RegisterId) (any, error) {
	desc, ok := registers.Lookup(id)
	if !ok {
		return nil, fmt.Errorf("ble: read %s: unknown register", id)
	}
	target := registers.Target(id)

	var accum []byte
	for i := 0; i < desc.IndexLen; i++ {
		index := desc.IndexStart + uint8(i)
		req := protocol.New(protocol.PC, target, protocol.CmdRead, index, []byte{desc.ReadLen})
		reply, err := c.request(req)
		if err != nil {
			return nil, fmt.Errorf("ble: read %s at index 0x%02X: %w", id, index, err)
		}
		accum = append(accum, reply.Data...)
	}

	value, err := desc.Decode(accum)
	if err != nil {
		return nil, fmt.Errorf("ble: read %s: decode: %w", id, err)
	}
	if desc.Scale != nil {
		value = desc.Scale(value)
	}
	return value, nil
}
