// Package testutil contains helper builders and recording fakes used across
// tests to reduce boilerplate when constructing carts and asserting on
// notifications and slot writes. Not intended for production usage.
package testutil
