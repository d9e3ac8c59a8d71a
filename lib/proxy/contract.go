package proxy

import (
	"fmt"
	"strings"
)

// --------------------------------------------------------------------------
// Serialization Contract
// --------------------------------------------------------------------------

// DefaultInitialBufferSize is the output buffer capacity used when a contract
// does not set one
const DefaultInitialBufferSize = 20

// Contract is the per-type serialization configuration
type Contract struct {
	// InitialBufferSize is the capacity of the cached output buffer in bytes
	InitialBufferSize int
	// StrictMode selects strict field matching on deserialization
	StrictMode bool
}

// DefaultContract returns the contract used for types without configuration
func DefaultContract() Contract {
	return Contract{InitialBufferSize: DefaultInitialBufferSize}
}

// Validate checks the contract for invalid values
func (c Contract) Validate() error {
	if c.InitialBufferSize <= 0 {
		return fmt.Errorf("invalid initial buffer size %d: must be greater than 0", c.InitialBufferSize)
	}
	return nil
}

// String returns a formatted string representation of the contract
func (c Contract) String() string {
	var sb strings.Builder

	addField := func(name, value string) {
		sb.WriteString(fmt.Sprintf("  %-22s: %s\n", name, value))
	}

	sb.WriteString("CONTRACT\n")
	addField("Initial Buffer Size", fmt.Sprintf("%d bytes", c.InitialBufferSize))
	if c.StrictMode {
		addField("Field Matching", "strict")
	} else {
		addField("Field Matching", "lenient")
	}

	return sb.String()
}
