// Package controller owns the booking form's submission lifecycle: field
// values, inline validation errors, the in-flight gate and the transient
// submission status together with the timer that clears it.
package controller
