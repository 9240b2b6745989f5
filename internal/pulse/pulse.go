// Package pulse is the audio side of the workflow, backed by PulseAudio's
// D-Bus core API. PulseAudio runs its own peer-to-peer D-Bus server; its
// address is looked up through the session bus (or PULSE_DBUS_SERVER).
package pulse

import (
	"fmt"
	"os"
	"strings"

	"github.com/godbus/dbus/v5"

	"github.com/Hangmatt/ConnectBlue/internal/route"
)

const (
	lookupBusName = "org.PulseAudio1"
	lookupPath    = "/org/pulseaudio/server_lookup1"
	lookupIface   = "org.PulseAudio.ServerLookup1"

	coreName    = "org.PulseAudio.Core1"
	corePath    = "/org/pulseaudio/core1"
	deviceIface = "org.PulseAudio.Core1.Device"
	propsIface  = "org.freedesktop.DBus.Properties"

	descriptionKey = "device.description"
	busKey         = "device.bus"
)

// serverAddress finds the address of PulseAudio's private D-Bus server.
func serverAddress() (string, error) {
	if addr := os.Getenv("PULSE_DBUS_SERVER"); addr != "" {
		return addr, nil
	}
	conn, err := dbus.SessionBus()
	if err != nil {
		return "", fmt.Errorf("connect to session bus: %w", err)
	}
	obj := conn.Object(lookupBusName, lookupPath)
	v, err := obj.GetProperty(lookupIface + ".Address")
	if err != nil {
		return "", fmt.Errorf("look up pulseaudio server address (is module-dbus-protocol loaded?): %w", err)
	}
	addr, ok := v.Value().(string)
	if !ok || addr == "" {
		return "", fmt.Errorf("pulseaudio server address property is empty")
	}
	return addr, nil
}

// Pulse wraps a peer connection to the PulseAudio core object. It
// implements route.Audio.
type Pulse struct {
	conn *dbus.Conn
}

func New() (*Pulse, error) {
	addr, err := serverAddress()
	if err != nil {
		return nil, err
	}
	conn, err := dbus.Dial(addr)
	if err != nil {
		return nil, fmt.Errorf("dial pulseaudio server: %w", err)
	}
	if err := conn.Auth(nil); err != nil {
		conn.Close()
		return nil, fmt.Errorf("authenticate to pulseaudio server: %w", err)
	}
	// Peer connection: no bus daemon, so no Hello.
	return &Pulse{conn: conn}, nil
}

func (p *Pulse) Close() {
	p.conn.Close()
}

func (p *Pulse) getProp(path dbus.ObjectPath, iface, prop string) (dbus.Variant, error) {
	obj := p.conn.Object(coreName, path)
	var v dbus.Variant
	err := obj.Call(propsIface+".Get", 0, iface, prop).Store(&v)
	return v, err
}

// DefaultOutput returns the fallback sink, PulseAudio's notion of the
// default output device. An error means no default is resolvable (no sinks,
// or the property is unset).
func (p *Pulse) DefaultOutput() (route.OutputID, error) {
	v, err := p.getProp(corePath, coreName, "FallbackSink")
	if err != nil {
		return "", fmt.Errorf("read fallback sink: %w", err)
	}
	path, ok := v.Value().(dbus.ObjectPath)
	if !ok {
		return "", fmt.Errorf("FallbackSink is not an object path")
	}
	return route.OutputID(path), nil
}

// Outputs lists every sink the server knows about. The server returns the
// complete list; there is no fixed enumeration ceiling.
func (p *Pulse) Outputs() ([]route.OutputID, error) {
	v, err := p.getProp(corePath, coreName, "Sinks")
	if err != nil {
		return nil, fmt.Errorf("list sinks: %w", err)
	}
	paths, ok := v.Value().([]dbus.ObjectPath)
	if !ok {
		return nil, fmt.Errorf("Sinks is not a list of object paths")
	}
	ids := make([]route.OutputID, len(paths))
	for i, path := range paths {
		ids[i] = route.OutputID(path)
	}
	return ids, nil
}

// Name returns the sink's human-readable description, e.g. "WH-1000XM4".
func (p *Pulse) Name(id route.OutputID) (string, error) {
	props, err := p.propertyList(id)
	if err != nil {
		return "", err
	}
	name := propString(props, descriptionKey)
	if name == "" {
		return "", fmt.Errorf("sink %s has no %s", id, descriptionKey)
	}
	return name, nil
}

// TransportKind returns the sink's device.bus entry ("bluetooth", "usb",
// "pci"), or "" when the server doesn't record one.
func (p *Pulse) TransportKind(id route.OutputID) (string, error) {
	props, err := p.propertyList(id)
	if err != nil {
		return "", err
	}
	return propString(props, busKey), nil
}

// SetDefaultOutput points the fallback sink at id.
func (p *Pulse) SetDefaultOutput(id route.OutputID) error {
	obj := p.conn.Object(coreName, corePath)
	call := obj.Call(propsIface+".Set", 0, coreName, "FallbackSink",
		dbus.MakeVariant(dbus.ObjectPath(id)))
	if call.Err != nil {
		return fmt.Errorf("set fallback sink: %w", call.Err)
	}
	return nil
}

func (p *Pulse) propertyList(id route.OutputID) (map[string][]byte, error) {
	v, err := p.getProp(dbus.ObjectPath(id), deviceIface, "PropertyList")
	if err != nil {
		return nil, fmt.Errorf("read property list of %s: %w", id, err)
	}
	props, ok := v.Value().(map[string][]byte)
	if !ok {
		return nil, fmt.Errorf("PropertyList of %s has unexpected type", id)
	}
	return props, nil
}

// propString decodes one PulseAudio proplist value. Values are raw bytes
// with a trailing NUL when they hold a string.
func propString(props map[string][]byte, key string) string {
	return strings.TrimRight(string(props[key]), "\x00")
}
