// Package source delivers sensor events to the display.
//
// Sources run on their own goroutines. OnLoop wraps a Callbacks so that
// every event is marshalled onto the display loop before it is handled.
package source

import "github.com/partheniadis/r-node-nRF/internal/logic"

// Callbacks receives sensor events. Implementations are not required to
// be safe for concurrent use.
type Callbacks interface {
	OnServicesDiscovered(optionalServicesFound bool)
	OnDeviceReady()
	OnPositionFound(position string)
	OnReadingReceived(r logic.Reading)
	OnDisconnected()
}

// OnLoop returns Callbacks that post every event through post, which runs
// the function on the goroutine that owns cb.
func OnLoop(post func(func()), cb Callbacks) Callbacks {
	return &loopCallbacks{post: post, cb: cb}
}

type loopCallbacks struct {
	post func(func())
	cb   Callbacks
}

func (l *loopCallbacks) OnServicesDiscovered(optional bool) {
	l.post(func() { l.cb.OnServicesDiscovered(optional) })
}

func (l *loopCallbacks) OnDeviceReady() {
	l.post(l.cb.OnDeviceReady)
}

func (l *loopCallbacks) OnPositionFound(position string) {
	l.post(func() { l.cb.OnPositionFound(position) })
}

func (l *loopCallbacks) OnReadingReceived(r logic.Reading) {
	l.post(func() { l.cb.OnReadingReceived(r) })
}

func (l *loopCallbacks) OnDisconnected() {
	l.post(l.cb.OnDisconnected)
}
