package commands

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const (
	flushStateMessageType = "appkit.state.flush"
	rotateKeysMessageType = "appkit.security.rotate_keys"
)

// FlushStateCommand persists pending application state through the state
// persister component.
type FlushStateCommand struct {
	// Reason is recorded in logs for operational traceability.
	Reason string `json:"reason,omitempty"`
}

// Type implements command.Message.
func (FlushStateCommand) Type() string { return flushStateMessageType }

// Validate implements command message validation; flushing has no required
// inputs.
func (cmd FlushStateCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Reason, validation.Length(0, 256)),
	)
}

// RotateKeysCommand regenerates the security manager validation key.
// Existing signatures stop validating once rotation completes.
type RotateKeysCommand struct {
	// Confirm must be set; rotation invalidates outstanding signatures.
	Confirm bool `json:"confirm"`
}

// Type implements command.Message.
func (RotateKeysCommand) Type() string { return rotateKeysMessageType }

// Validate ensures rotation is explicit before handlers execute.
func (cmd RotateKeysCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Confirm, validation.Required.Error("confirmation is required to rotate keys")),
	)
}
