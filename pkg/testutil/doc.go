// Package testutil provides mocks and fakes shared by the package tests.
package testutil
