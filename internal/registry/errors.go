package registry

import (
	goerrors "github.com/goliatone/go-errors"
)

const (
	codeComponentNotRegistered = "COMPONENT_NOT_REGISTERED"
	codeComponentTypeUnknown   = "COMPONENT_TYPE_UNKNOWN"
	codePropertiesInvalid      = "COMPONENT_PROPERTIES_INVALID"
)

// NotRegisteredError builds the configuration error returned when a component
// name has no descriptor.
func NotRegisteredError(name string) error {
	return goerrors.New("component is not registered: "+name, goerrors.CategoryValidation).
		WithTextCode(codeComponentNotRegistered)
}

// UnknownTypeError builds the configuration error returned when a descriptor
// names a type with no factory in the table.
func UnknownTypeError(name, typeName string) error {
	return goerrors.New("component "+name+" references unknown type "+typeName, goerrors.CategoryValidation).
		WithTextCode(codeComponentTypeUnknown)
}

func invalidPropertiesError(name string, err error) error {
	if goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryValidation, "component "+name+" has invalid properties").
		WithTextCode(codePropertiesInvalid)
}

// IsConfigurationError reports whether err originated from component or
// application wiring rather than from a component's own initialization.
func IsConfigurationError(err error) bool {
	return goerrors.IsCategory(err, goerrors.CategoryValidation)
}
