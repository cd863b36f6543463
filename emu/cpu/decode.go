package cpu

import "fmt"

// opKind enumerates the baseline CHIP-8 operations. 0nnn machine code
// routines are not supported and decode as an unknown opcode.
type opKind int

const (
	opCLS       opKind = iota // 00E0
	opRET                     // 00EE
	opJP                      // 1nnn
	opCALL                    // 2nnn
	opSEByte                  // 3xkk
	opSNEByte                 // 4xkk
	opSEReg                   // 5xy0
	opLDByte                  // 6xkk
	opADDByte                 // 7xkk
	opLDReg                   // 8xy0
	opOR                      // 8xy1
	opAND                     // 8xy2
	opXOR                     // 8xy3
	opADDReg                  // 8xy4
	opSUB                     // 8xy5
	opSHR                     // 8xy6
	opSUBN                    // 8xy7
	opSHL                     // 8xyE
	opSNEReg                  // 9xy0
	opLDI                     // Annn
	opJPV0                    // Bnnn
	opRND                     // Cxkk
	opDRW                     // Dxyn
	opSKP                     // Ex9E
	opSKNP                    // ExA1
	opLDVxDT                  // Fx07
	opLDKey                   // Fx0A
	opLDDTVx                  // Fx15
	opLDSTVx                  // Fx18
	opADDI                    // Fx1E
	opLDFont                  // Fx29
	opLDBCD                   // Fx33
	opStoreRegs               // Fx55
	opLoadRegs                // Fx65
)

// instruction is a decoded opcode with its operand fields extracted. Which
// fields are meaningful depends on the kind; decode fills all of them
// unconditionally since extraction is just masking.
type instruction struct {
	kind opKind
	x    uint8  // second nibble, a register index
	y    uint8  // third nibble, a register index
	n    uint8  // low nibble, the DRW sprite height
	kk   uint8  // low byte immediate
	nnn  uint16 // low 12 bits, an address
}

// decode classifies a 16 bit opcode by its high nibble and, for the
// ambiguous groups 0x0/0x5/0x8/0x9/0xE/0xF, by its low byte or low nibble.
// Opcodes that match no variant are a terminal error; skipping them would
// silently mask ROM bugs.
func decode(opcode uint16) (instruction, error) {
	ins := instruction{
		x:   uint8(opcode >> 8 & 0x0F),
		y:   uint8(opcode >> 4 & 0x0F),
		n:   uint8(opcode & 0x000F),
		kk:  uint8(opcode & 0x00FF),
		nnn: opcode & 0x0FFF,
	}

	unknown := func() (instruction, error) {
		return instruction{}, fmt.Errorf("%w: 0x%04X", ErrUnknownOpcode, opcode)
	}

	switch opcode & 0xF000 {
	case 0x0000:
		switch opcode {
		case 0x00E0:
			ins.kind = opCLS
		case 0x00EE:
			ins.kind = opRET
		default:
			return unknown()
		}
	case 0x1000:
		ins.kind = opJP
	case 0x2000:
		ins.kind = opCALL
	case 0x3000:
		ins.kind = opSEByte
	case 0x4000:
		ins.kind = opSNEByte
	case 0x5000:
		if ins.n != 0 {
			return unknown()
		}
		ins.kind = opSEReg
	case 0x6000:
		ins.kind = opLDByte
	case 0x7000:
		ins.kind = opADDByte
	case 0x8000:
		switch ins.n {
		case 0x0:
			ins.kind = opLDReg
		case 0x1:
			ins.kind = opOR
		case 0x2:
			ins.kind = opAND
		case 0x3:
			ins.kind = opXOR
		case 0x4:
			ins.kind = opADDReg
		case 0x5:
			ins.kind = opSUB
		case 0x6:
			ins.kind = opSHR
		case 0x7:
			ins.kind = opSUBN
		case 0xE:
			ins.kind = opSHL
		default:
			return unknown()
		}
	case 0x9000:
		if ins.n != 0 {
			return unknown()
		}
		ins.kind = opSNEReg
	case 0xA000:
		ins.kind = opLDI
	case 0xB000:
		ins.kind = opJPV0
	case 0xC000:
		ins.kind = opRND
	case 0xD000:
		ins.kind = opDRW
	case 0xE000:
		switch ins.kk {
		case 0x9E:
			ins.kind = opSKP
		case 0xA1:
			ins.kind = opSKNP
		default:
			return unknown()
		}
	case 0xF000:
		switch ins.kk {
		case 0x07:
			ins.kind = opLDVxDT
		case 0x0A:
			ins.kind = opLDKey
		case 0x15:
			ins.kind = opLDDTVx
		case 0x18:
			ins.kind = opLDSTVx
		case 0x1E:
			ins.kind = opADDI
		case 0x29:
			ins.kind = opLDFont
		case 0x33:
			ins.kind = opLDBCD
		case 0x55:
			ins.kind = opStoreRegs
		case 0x65:
			ins.kind = opLoadRegs
		default:
			return unknown()
		}
	}
	return ins, nil
}

var opNames = map[opKind]string{
	opCLS:       "CLS",
	opRET:       "RET",
	opJP:        "JP",
	opCALL:      "CALL",
	opSEByte:    "SE Vx, kk",
	opSNEByte:   "SNE Vx, kk",
	opSEReg:     "SE Vx, Vy",
	opLDByte:    "LD Vx, kk",
	opADDByte:   "ADD Vx, kk",
	opLDReg:     "LD Vx, Vy",
	opOR:        "OR",
	opAND:       "AND",
	opXOR:       "XOR",
	opADDReg:    "ADD Vx, Vy",
	opSUB:       "SUB",
	opSHR:       "SHR",
	opSUBN:      "SUBN",
	opSHL:       "SHL",
	opSNEReg:    "SNE Vx, Vy",
	opLDI:       "LD I, nnn",
	opJPV0:      "JP V0, nnn",
	opRND:       "RND",
	opDRW:       "DRW",
	opSKP:       "SKP",
	opSKNP:      "SKNP",
	opLDVxDT:    "LD Vx, DT",
	opLDKey:     "LD Vx, K",
	opLDDTVx:    "LD DT, Vx",
	opLDSTVx:    "LD ST, Vx",
	opADDI:      "ADD I, Vx",
	opLDFont:    "LD F, Vx",
	opLDBCD:     "LD B, Vx",
	opStoreRegs: "LD [I], Vx",
	opLoadRegs:  "LD Vx, [I]",
}

// name returns the mnemonic of the decoded instruction, used by the debug
// trace.
func (ins instruction) name() string {
	return opNames[ins.kind]
}
