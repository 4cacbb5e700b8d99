// Package achievement evaluates declarative achievement requirements and
// maps total XP onto levels.
//
// Requirements are matched by a single generic matcher against a Snapshot
// of the learner's profile, progress and streak. Evaluation never returns an
// achievement the learner already has, and Award credits the XP reward in
// the same copy that records the achievement id.
package achievement
