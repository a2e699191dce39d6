// Package ui formats command output: status messages and the batch window table.
package ui
