package trailing

import "fmt"

// InstructionType represents the kind of stop-loss action the engine decided on
type InstructionType int

const (
	// NoOp leaves the stop where it is
	NoOp InstructionType = iota
	// SetStop moves (or places) the stop at Instruction.StopPrice
	SetStop
	// RemoveStop clears the existing stop entirely
	RemoveStop
)

func (t InstructionType) String() string {
	switch t {
	case NoOp:
		return "NO_OP"
	case SetStop:
		return "SET_STOP"
	case RemoveStop:
		return "REMOVE_STOP"
	default:
		return "UNKNOWN"
	}
}

// Instruction is the engine's output for one position and one cycle
type Instruction struct {
	Type      InstructionType
	StopPrice float64 // target stop price, meaningful only for SetStop
	Reason    string  // human-readable explanation for logs and the journal
}

func (i Instruction) String() string {
	if i.Type == SetStop {
		return fmt.Sprintf("%s(%g)", i.Type, i.StopPrice)
	}
	return i.Type.String()
}

// noop builds a NoOp instruction with a reason
func noop(reason string) Instruction {
	return Instruction{Type: NoOp, Reason: reason}
}

// setStop builds a SetStop instruction
func setStop(price float64, reason string) Instruction {
	return Instruction{Type: SetStop, StopPrice: price, Reason: reason}
}

// removeStop builds a RemoveStop instruction
func removeStop(reason string) Instruction {
	return Instruction{Type: RemoveStop, Reason: reason}
}
