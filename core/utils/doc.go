// Package utils provides small conversion helpers shared by handlers and commands,
// such as parsing query parameters.
package utils
