package crypto

import "runtime"

// ZeroBytes overwrites data so derived keys and password copies do not
// linger in memory after use.
func ZeroBytes(data []byte) {
	if len(data) == 0 {
		return
	}

	for _, pattern := range []byte{0xFF, 0xAA, 0x55} {
		for i := range data {
			data[i] = pattern
		}
		runtime.KeepAlive(data)
	}

	for i := range data {
		data[i] = 0
	}
	runtime.KeepAlive(data)
}
