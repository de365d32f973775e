//go:build linux || windows || darwin

package main

func checkPlatform() error {
	return nil
}
