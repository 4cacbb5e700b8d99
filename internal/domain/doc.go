// Package domain contains the core entities of the learning progression
// engine: review items, learner profiles, lesson progress, streak state and
// achievement definitions. It has no knowledge of storage or transport; the
// subpackages hold the pure algorithms that transform these entities.
package domain
