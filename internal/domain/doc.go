// Package domain contains the study entities of the application: the
// documents a learner uploads, the quiz items generated from them, and the
// running statistics of their review sessions. It is independent of any
// storage or delivery mechanism.
package domain
