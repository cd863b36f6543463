package cpu

import (
	"fmt"

	"github.com/retroenv/retrogolib/log"
)

// Step performs exactly one fetch-decode-execute cycle. The host controls
// the cycle rate; Step never sleeps and never blocks. A wait-for-key
// instruction that finds no key held leaves the program counter in place,
// so the host simply keeps calling Step until a key satisfies it.
func (m *Machine) Step() error {
	if int(m.pc)+1 >= memorySize {
		return fmt.Errorf("%w: pc=0x%04X", ErrOutOfBoundsFetch, m.pc)
	}
	opcode := uint16(m.memory[m.pc])<<8 | uint16(m.memory[m.pc+1])

	ins, err := decode(opcode)
	if err != nil {
		return fmt.Errorf("pc 0x%04X: %w", m.pc, err)
	}

	if m.trace != nil {
		m.trace.Debug("exec",
			log.Hex("pc", m.pc),
			log.Hex("opcode", opcode),
			log.String("op", ins.name()))
	}

	return m.execute(ins)
}

// execute applies one decoded instruction to the machine state and
// advances the program counter: by one word normally, by two for a
// satisfied skip, or not at all for jumps, calls and returns which set it
// outright. The arithmetic group writes VF last so the flag wins even when
// VF itself is an operand.
func (m *Machine) execute(ins instruction) error {
	switch ins.kind {
	case opCLS:
		m.display.Clear()
		m.advance()

	case opRET:
		if m.sp == 0 {
			return fmt.Errorf("%w: RET at pc 0x%04X", ErrStackUnderflow, m.pc)
		}
		m.sp--
		m.pc = m.stack[m.sp]

	case opJP:
		m.pc = ins.nnn

	case opCALL:
		if m.sp == stackDepth {
			return fmt.Errorf("%w: call depth %d exceeded at pc 0x%04X", ErrStackOverflow, stackDepth, m.pc)
		}
		m.stack[m.sp] = m.pc + 2
		m.sp++
		m.pc = ins.nnn

	case opSEByte:
		m.skipIf(m.v[ins.x] == ins.kk)

	case opSNEByte:
		m.skipIf(m.v[ins.x] != ins.kk)

	case opSEReg:
		m.skipIf(m.v[ins.x] == m.v[ins.y])

	case opLDByte:
		m.v[ins.x] = ins.kk
		m.advance()

	case opADDByte:
		m.v[ins.x] += ins.kk
		m.advance()

	case opLDReg:
		m.v[ins.x] = m.v[ins.y]
		m.advance()

	case opOR:
		m.v[ins.x] |= m.v[ins.y]
		m.advance()

	case opAND:
		m.v[ins.x] &= m.v[ins.y]
		m.advance()

	case opXOR:
		m.v[ins.x] ^= m.v[ins.y]
		m.advance()

	case opADDReg:
		sum := uint16(m.v[ins.x]) + uint16(m.v[ins.y])
		m.v[ins.x] = uint8(sum)
		m.setFlag(sum > 0xFF)
		m.advance()

	case opSUB:
		// VF=1 iff no borrow, the CHIP-8 convention
		noBorrow := m.v[ins.x] >= m.v[ins.y]
		m.v[ins.x] -= m.v[ins.y]
		m.setFlag(noBorrow)
		m.advance()

	case opSHR:
		bit := m.v[ins.x] & 0x01
		m.v[ins.x] >>= 1
		m.setFlag(bit == 1)
		m.advance()

	case opSUBN:
		noBorrow := m.v[ins.y] >= m.v[ins.x]
		m.v[ins.x] = m.v[ins.y] - m.v[ins.x]
		m.setFlag(noBorrow)
		m.advance()

	case opSHL:
		bit := m.v[ins.x] >> 7
		m.v[ins.x] <<= 1
		m.setFlag(bit == 1)
		m.advance()

	case opSNEReg:
		m.skipIf(m.v[ins.x] != m.v[ins.y])

	case opLDI:
		m.i = ins.nnn
		m.advance()

	case opJPV0:
		m.pc = (ins.nnn + uint16(m.v[0])) & 0x0FFF

	case opRND:
		m.v[ins.x] = m.rand.Byte() & ins.kk
		m.advance()

	case opDRW:
		sprite, err := m.memRange(uint16(ins.n))
		if err != nil {
			return err
		}
		m.setFlag(m.display.Blit(m.v[ins.x], m.v[ins.y], sprite))
		m.advance()

	case opSKP:
		m.skipIf(m.keypad.IsDown(m.v[ins.x] & 0x0F))

	case opSKNP:
		m.skipIf(!m.keypad.IsDown(m.v[ins.x] & 0x0F))

	case opLDVxDT:
		m.v[ins.x] = m.delayTimer
		m.advance()

	case opLDKey:
		// level triggered poll: no held key means no visible effect and
		// the same instruction runs again next Step
		if key, ok := m.keypad.FirstDown(); ok {
			m.v[ins.x] = key
			m.advance()
		}

	case opLDDTVx:
		m.delayTimer = m.v[ins.x]
		m.advance()

	case opLDSTVx:
		m.soundTimer = m.v[ins.x]
		m.advance()

	case opADDI:
		m.i += uint16(m.v[ins.x])
		m.advance()

	case opLDFont:
		m.i = fontOffset + glyphSize*uint16(m.v[ins.x]&0x0F)
		m.advance()

	case opLDBCD:
		window, err := m.memRange(3)
		if err != nil {
			return err
		}
		window[0] = m.v[ins.x] / 100
		window[1] = m.v[ins.x] / 10 % 10
		window[2] = m.v[ins.x] % 10
		m.advance()

	case opStoreRegs:
		window, err := m.memRange(uint16(ins.x) + 1)
		if err != nil {
			return err
		}
		copy(window, m.v[:ins.x+1])
		m.advance()

	case opLoadRegs:
		window, err := m.memRange(uint16(ins.x) + 1)
		if err != nil {
			return err
		}
		copy(m.v[:ins.x+1], window)
		m.advance()
	}
	return nil
}

// advance moves the program counter past the current two byte instruction,
// wrapping at the top of the 12 bit address space.
func (m *Machine) advance() {
	m.pc = (m.pc + 2) & 0x0FFF
}

// skipIf advances past one extra instruction when cond holds.
func (m *Machine) skipIf(cond bool) {
	if cond {
		m.pc = (m.pc + 4) & 0x0FFF
	} else {
		m.advance()
	}
}

// setFlag writes the VF side channel.
func (m *Machine) setFlag(on bool) {
	if on {
		m.v[0xF] = 1
	} else {
		m.v[0xF] = 0
	}
}
