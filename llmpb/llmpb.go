// Package llmpb contains generated code corresponding to the Protocol
// Buffer definition of the spool generation service.
package llmpb

//go:generate bash -c "cd ../proto && buf generate"
