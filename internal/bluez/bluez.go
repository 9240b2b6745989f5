// Package bluez is the Bluetooth side of the workflow, backed by BlueZ over
// the system D-Bus. Devices are never discovered or paired here; the target
// must already be known to the adapter.
package bluez

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/godbus/dbus/v5"

	"github.com/Hangmatt/ConnectBlue/internal/route"
)

const (
	busName     = "org.bluez"
	adapterPath = "/org/bluez/hci0"
	deviceIface = "org.bluez.Device1"
	propsIface  = "org.freedesktop.DBus.Properties"
)

var addressRe = regexp.MustCompile(`^(?:[0-9A-Fa-f]{2}:){5}[0-9A-Fa-f]{2}$`)

// ValidAddress reports whether addr looks like a MAC address such as
// "AA:BB:CC:DD:EE:FF".
func ValidAddress(addr string) bool {
	return addressRe.MatchString(addr)
}

// deviceObjectPath converts a MAC address like "AA:BB:CC:DD:EE:FF" to
// "/org/bluez/hci0/dev_AA_BB_CC_DD_EE_FF".
func deviceObjectPath(addr string) dbus.ObjectPath {
	escaped := strings.ReplaceAll(addr, ":", "_")
	return dbus.ObjectPath(adapterPath + "/dev_" + escaped)
}

// Bluez wraps a system D-Bus connection for BlueZ operations. It implements
// route.Bluetooth.
type Bluez struct {
	conn *dbus.Conn
}

func New() (*Bluez, error) {
	conn, err := dbus.SystemBus()
	if err != nil {
		return nil, fmt.Errorf("connect to system bus: %w", err)
	}
	// Quick check that BlueZ is on the bus.
	var names []string
	if err := conn.BusObject().Call("org.freedesktop.DBus.ListNames", 0).Store(&names); err != nil {
		conn.Close()
		return nil, fmt.Errorf("list bus names: %w", err)
	}
	found := false
	for _, n := range names {
		if n == busName {
			found = true
			break
		}
	}
	if !found {
		conn.Close()
		return nil, fmt.Errorf("org.bluez not found on system bus — is bluetooth.service running?")
	}
	return &Bluez{conn: conn}, nil
}

func (b *Bluez) Close() {
	b.conn.Close()
}

func (b *Bluez) getProp(path dbus.ObjectPath, prop string) (dbus.Variant, error) {
	obj := b.conn.Object(busName, path)
	var v dbus.Variant
	err := obj.Call(propsIface+".Get", 0, deviceIface, prop).Store(&v)
	return v, err
}

// Resolve maps a MAC address to a device handle. A malformed address or a
// device the adapter has never seen both come back as errors; the workflow
// treats either as not found.
func (b *Bluez) Resolve(address string) (route.Device, error) {
	if !ValidAddress(address) {
		return "", fmt.Errorf("malformed address %q", address)
	}
	path := deviceObjectPath(address)
	if _, err := b.getProp(path, "Address"); err != nil {
		return "", fmt.Errorf("device %s not known to adapter: %w", address, err)
	}
	return route.Device(path), nil
}

// OpenConnection issues Device1.Connect. BlueZ returns an error when the
// connection attempt is rejected; profile-level connection may still be in
// flight afterwards, which is what the caller's poll loop is for.
func (b *Bluez) OpenConnection(dev route.Device) error {
	obj := b.conn.Object(busName, dbus.ObjectPath(dev))
	return obj.Call(deviceIface+".Connect", 0).Err
}

func (b *Bluez) Connected(dev route.Device) (bool, error) {
	v, err := b.getProp(dbus.ObjectPath(dev), "Connected")
	if err != nil {
		return false, err
	}
	val, ok := v.Value().(bool)
	if !ok {
		return false, fmt.Errorf("property Connected is not bool")
	}
	return val, nil
}

// Name returns the device's Alias, the user-visible name BlueZ shows.
// Empty on failure so callers fall back to the address.
func (b *Bluez) Name(dev route.Device) (string, error) {
	v, err := b.getProp(dbus.ObjectPath(dev), "Alias")
	if err != nil {
		return "", err
	}
	name, ok := v.Value().(string)
	if !ok {
		return "", fmt.Errorf("property Alias is not string")
	}
	return name, nil
}
