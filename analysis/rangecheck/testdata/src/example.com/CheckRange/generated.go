// Code generated by hand for testing. DO NOT EDIT.

package pkg

func generated(a uint8) bool {
	return a < 0
}
