package inst

// NumRegisters is the size of the general register file.
const NumRegisters = 6

// Register numbers, in encoding order.
const (
	RegA uint16 = iota
	RegB
	RegC
	RegD
	RegX
	RegY
)

var registerNames = [NumRegisters]string{"A", "B", "C", "D", "X", "Y"}

// RegisterName returns the mnemonic for a register number, or "" if r is
// outside 0..5.
func RegisterName(r uint16) string {
	if r >= NumRegisters {
		return ""
	}
	return registerNames[r]
}

// LookupRegister returns the register number for a mnemonic ("A".."Y"),
// as used by the assembler.
func LookupRegister(name string) (uint16, bool) {
	for i, n := range registerNames {
		if n == name {
			return uint16(i), true
		}
	}
	return 0, false
}
