//go:build !linux
// +build !linux

package mapped

func adviseSequential(data []byte) error { return nil }
