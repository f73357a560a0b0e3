package validation

import (
	"context"
	"fmt"
)

// Validator checks one family of configuration files. Implementations must
// fold every problem into the returned Result instead of aborting.
type Validator interface {
	ConfigType() ConfigType
	Validate(ctx context.Context) Result
}

// runValidatorSafely converts a panicking validator into a failed result so
// one broken validator cannot take down the rest of the pass.
func runValidatorSafely(ctx context.Context, v Validator) (result Result) {
	defer func() {
		if r := recover(); r != nil {
			result = Result{
				Passed:     false,
				ConfigType: v.ConfigType(),
				Errors:     []string{fmt.Sprintf("%s validator panicked: %v", v.ConfigType(), r)},
			}
		}
	}()
	return v.Validate(ctx)
}
