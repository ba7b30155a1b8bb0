package compound

import "lendpool/core"

// Require returns code when the condition does not hold
func Require(condition bool, code core.ErrorCode) error {
	if condition {
		return nil
	}

	return code
}
