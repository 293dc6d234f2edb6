// Package ble implements a client for the Ninebot/Segway electric
// scooter BLE-UART protocol: connection management, the session
// handshake, and the request/reply engine register reads are built on.
package ble

import "context"

// Nordic UART Service characteristic UUIDs the scooter exposes.
const (
	ServiceUUID = "6e400001-b5a3-f393-e0a9-e50e24dcca9e"
	RXCharUUID  = "6e400002-b5a3-f393-e0a9-e50e24dcca9e" // client writes here
	TXCharUUID  = "6e400003-b5a3-f393-e0a9-e50e24dcca9e" // client receives notifications here
)

// MaxWriteBytes is the assumed BLE write MTU; outbound frames are split
// into chunks no larger than this.
const MaxWriteBytes = 20

// Characteristic represents a BLE GATT characteristic.
type Characteristic interface {
	// Write sends data without waiting for a GATT response.
	Write(data []byte) error
	// Subscribe registers a callback invoked for every notification on
	// this characteristic.
	Subscribe(callback func(data []byte)) error
}

// Device represents a discovered BLE peripheral.
type Device struct {
	Name string
	MAC  string
	RSSI int
}

// Connection represents an active BLE connection to a peripheral.
type Connection interface {
	// DiscoverCharacteristic finds a characteristic by UUID within a service.
	DiscoverCharacteristic(serviceUUID, charUUID string) (Characteristic, error)
	// Disconnect terminates the connection.
	Disconnect() error
	// OnDisconnect registers a callback invoked when the connection drops.
	OnDisconnect(callback func())
}

// Adapter abstracts the BLE hardware adapter so the client can run
// against either a real adapter or a mock in tests.
type Adapter interface {
	// Enable powers on the BLE adapter.
	Enable() error
	// Scan discovers BLE peripherals advertising the given service UUID,
	// until ctx is cancelled.
	Scan(ctx context.Context, serviceUUID string) ([]Device, error)
	// Connect establishes a connection to the device with the given
	// MAC address (or platform device identifier).
	Connect(ctx context.Context, mac string) (Connection, error)
}
