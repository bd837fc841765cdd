//go:build !darwin

package permissions

import "context"

// Platforms without a microphone privacy gatekeeper report Authorized.

func checkMicrophone() Status {
	return Authorized
}

func requestMicrophone(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	return true, nil
}
