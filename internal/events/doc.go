// Package events provides the event envelope and the in-process emitter used
// to publish progression and reminder events.
//
// Services emit events without knowing which handlers will process them;
// handlers such as notifiers and the presentation adapter register on the
// emitter at startup.
package events
