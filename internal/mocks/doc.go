/*
Package mocks will have all the mocks of the library, we'll try to use mocking using blackbox
testing and integration tests whenever is possible.
*/
package mocks

// fetch mocks.
//go:generate mockery -output ./fetch -dir ../../fetch -name Transport

// collector mocks.
//go:generate mockery -output ./collector -dir ../../collector -name Lister
//go:generate mockery -output ./collector -dir ../../collector -name Enricher

// github mocks.
//go:generate mockery -output ./github -dir ../../github -name Getter
