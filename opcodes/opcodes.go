// Package opcodes defines the single-byte instruction set the compiler
// emits and the VM's threaded dispatch loop consumes.
package opcodes

import "fmt"

// Op identifies a single bytecode instruction.
type Op byte

const (
	// Variable access (operand widths noted per opcode below).
	LOAD_LOCAL_VAR  Op = iota // 1: push frame.stackStart[n]
	STORE_LOCAL_VAR           // 1: peek-write frame.stackStart[n]

	LOAD_THIS_FIELD  // 1: push this.field[n]
	STORE_THIS_FIELD // 1: peek-write this.field[n]

	LOAD_FIELD  // 1: pop receiver, push receiver.field[n]
	STORE_FIELD // 1: pop receiver, peek-write receiver.field[n]

	LOAD_UPVALUE  // 1: push closure.upvalues[n].value
	STORE_UPVALUE // 1: peek-write closure.upvalues[n].value

	LOAD_MODULE_VAR  // 2: push module.vars[n]
	STORE_MODULE_VAR // 2: peek-write module.vars[n]

	LOAD_CONSTANT // 2: push fn.constants[n]

	PUSH_NULL  // 0
	PUSH_TRUE  // 0
	PUSH_FALSE // 0

	POP // 0: drop top of stack

	// Calls. CALL0..CALL16 and SUPER0..SUPER16 are contiguous runs so that
	// "base + argCount" yields the right opcode; see CallOp/SuperOp below.
	CALL0
	CALL1
	CALL2
	CALL3
	CALL4
	CALL5
	CALL6
	CALL7
	CALL8
	CALL9
	CALL10
	CALL11
	CALL12
	CALL13
	CALL14
	CALL15
	CALL16

	SUPER0
	SUPER1
	SUPER2
	SUPER3
	SUPER4
	SUPER5
	SUPER6
	SUPER7
	SUPER8
	SUPER9
	SUPER10
	SUPER11
	SUPER12
	SUPER13
	SUPER14
	SUPER15
	SUPER16

	// Branches, all 2-byte offset operands.
	JUMP
	LOOP
	JUMP_IF_FALSE
	AND
	OR

	CLOSE_UPVALUE // 0: close topmost open upvalue and pop
	RETURN        // 0: pop value, return from frame

	CREATE_CLOSURE // 2 + 2*U: fn idx, then U (isEnclosingLocal, index) pairs

	CREATE_CLASS // 1: field count; pops superclass and name, pushes class

	INSTANCE_METHOD // 2: method id; pops method and class, binds
	STATIC_METHOD   // 2: method id; pops method and class, binds to metaclass

	CONSTRUCT // 0: replace slot 0 with a new instance of the class in slot 0

	END // 0: sentinel, never executed
)

var names = [...]string{
	LOAD_LOCAL_VAR:    "LOAD_LOCAL_VAR",
	STORE_LOCAL_VAR:   "STORE_LOCAL_VAR",
	LOAD_THIS_FIELD:   "LOAD_THIS_FIELD",
	STORE_THIS_FIELD:  "STORE_THIS_FIELD",
	LOAD_FIELD:        "LOAD_FIELD",
	STORE_FIELD:       "STORE_FIELD",
	LOAD_UPVALUE:      "LOAD_UPVALUE",
	STORE_UPVALUE:     "STORE_UPVALUE",
	LOAD_MODULE_VAR:   "LOAD_MODULE_VAR",
	STORE_MODULE_VAR:  "STORE_MODULE_VAR",
	LOAD_CONSTANT:     "LOAD_CONSTANT",
	PUSH_NULL:         "PUSH_NULL",
	PUSH_TRUE:         "PUSH_TRUE",
	PUSH_FALSE:        "PUSH_FALSE",
	POP:               "POP",
	CALL0:             "CALL0",
	CALL1:             "CALL1",
	CALL2:             "CALL2",
	CALL3:             "CALL3",
	CALL4:             "CALL4",
	CALL5:             "CALL5",
	CALL6:             "CALL6",
	CALL7:             "CALL7",
	CALL8:             "CALL8",
	CALL9:             "CALL9",
	CALL10:            "CALL10",
	CALL11:            "CALL11",
	CALL12:            "CALL12",
	CALL13:            "CALL13",
	CALL14:            "CALL14",
	CALL15:            "CALL15",
	CALL16:            "CALL16",
	SUPER0:            "SUPER0",
	SUPER1:            "SUPER1",
	SUPER2:            "SUPER2",
	SUPER3:            "SUPER3",
	SUPER4:            "SUPER4",
	SUPER5:            "SUPER5",
	SUPER6:            "SUPER6",
	SUPER7:            "SUPER7",
	SUPER8:            "SUPER8",
	SUPER9:            "SUPER9",
	SUPER10:           "SUPER10",
	SUPER11:           "SUPER11",
	SUPER12:           "SUPER12",
	SUPER13:           "SUPER13",
	SUPER14:           "SUPER14",
	SUPER15:           "SUPER15",
	SUPER16:           "SUPER16",
	JUMP:              "JUMP",
	LOOP:              "LOOP",
	JUMP_IF_FALSE:     "JUMP_IF_FALSE",
	AND:               "AND",
	OR:                "OR",
	CLOSE_UPVALUE:     "CLOSE_UPVALUE",
	RETURN:            "RETURN",
	CREATE_CLOSURE:    "CREATE_CLOSURE",
	CREATE_CLASS:      "CREATE_CLASS",
	INSTANCE_METHOD:   "INSTANCE_METHOD",
	STATIC_METHOD:     "STATIC_METHOD",
	CONSTRUCT:         "CONSTRUCT",
	END:               "END",
}

func (op Op) String() string {
	if int(op) < len(names) && names[op] != "" {
		return names[op]
	}
	return fmt.Sprintf("OP(%d)", byte(op))
}

// OperandKind distinguishes how an opcode's trailing bytes must be walked,
// which matters for the inheritance-patching instruction-stream scan.
type OperandKind int

const (
	OperandNone        OperandKind = iota // 0 bytes
	OperandByte                           // 1 byte
	OperandShort                          // 2 bytes, big-endian
	OperandMethodID                       // 2 bytes, a method-name symbol id (CALLn)
	OperandSuper                          // 2 + 2 bytes: method id, superclass const idx (SUPERn)
	OperandClosure                        // 2 + 2*U bytes: fn idx, then U upvalue descriptor pairs
	OperandFieldAndSuperPatch             // marks ops whose 1-byte operand is a field index needing superclass-offset patching
)

// Info carries everything the VM and the disassembler need to know about an
// opcode's shape: how wide its operand is. Stack effects are not recorded
// here; the compiler's slot-count simulation computes its own.
type Info struct {
	Operand OperandKind
}

var infoTable = map[Op]Info{
	LOAD_LOCAL_VAR:   {OperandByte},
	STORE_LOCAL_VAR:  {OperandByte},
	LOAD_THIS_FIELD:  {OperandFieldAndSuperPatch},
	STORE_THIS_FIELD: {OperandFieldAndSuperPatch},
	LOAD_FIELD:       {OperandFieldAndSuperPatch},
	STORE_FIELD:      {OperandFieldAndSuperPatch},
	LOAD_UPVALUE:     {OperandByte},
	STORE_UPVALUE:    {OperandByte},
	LOAD_MODULE_VAR:  {OperandShort},
	STORE_MODULE_VAR: {OperandShort},
	LOAD_CONSTANT:    {OperandShort},
	PUSH_NULL:        {OperandNone},
	PUSH_TRUE:        {OperandNone},
	PUSH_FALSE:       {OperandNone},
	POP:              {OperandNone},
	JUMP:             {OperandShort},
	LOOP:             {OperandShort},
	JUMP_IF_FALSE:    {OperandShort},
	AND:              {OperandShort},
	OR:               {OperandShort},
	CLOSE_UPVALUE:    {OperandNone},
	RETURN:           {OperandNone},
	CREATE_CLOSURE:   {OperandClosure},
	CREATE_CLASS:     {OperandByte},
	INSTANCE_METHOD:  {OperandMethodID},
	STATIC_METHOD:    {OperandMethodID},
	CONSTRUCT:        {OperandNone},
	END:              {OperandNone},
}

func init() {
	for n := 0; n <= 16; n++ {
		infoTable[CallOp(n)] = Info{OperandMethodID}
		infoTable[SuperOp(n)] = Info{OperandSuper}
	}
}

// InfoOf returns operand-shape metadata for op. It panics on an unknown
// opcode, which only happens on a corrupt instruction stream.
func InfoOf(op Op) Info {
	info, ok := infoTable[op]
	if !ok {
		panic(fmt.Sprintf("opcodes: no operand info for %v", op))
	}
	return info
}

// CallOp returns the CALL<argCount> opcode for argCount in [0, 16].
func CallOp(argCount int) Op {
	if argCount < 0 || argCount > 16 {
		panic(fmt.Sprintf("opcodes: call arity %d out of range", argCount))
	}
	return CALL0 + Op(argCount)
}

// SuperOp returns the SUPER<argCount> opcode for argCount in [0, 16].
func SuperOp(argCount int) Op {
	if argCount < 0 || argCount > 16 {
		panic(fmt.Sprintf("opcodes: super arity %d out of range", argCount))
	}
	return SUPER0 + Op(argCount)
}

// IsCall reports whether op is one of CALL0..CALL16, and if so its arity.
func IsCall(op Op) (argCount int, ok bool) {
	if op >= CALL0 && op <= CALL16 {
		return int(op - CALL0), true
	}
	return 0, false
}

// IsSuper reports whether op is one of SUPER0..SUPER16, and if so its arity.
func IsSuper(op Op) (argCount int, ok bool) {
	if op >= SUPER0 && op <= SUPER16 {
		return int(op - SUPER0), true
	}
	return 0, false
}

// OperandSize returns the number of trailing operand bytes that follow op in
// the instruction stream, not counting the opcode byte itself. It does not
// handle CREATE_CLOSURE, whose width depends on its own first operand (the
// upvalue count); callers needing that must special-case it, which is why
// the instruction-stream walkers in vm and compiler treat it separately.
func OperandSize(op Op) int {
	switch InfoOf(op).Operand {
	case OperandNone:
		return 0
	case OperandByte, OperandFieldAndSuperPatch:
		return 1
	case OperandShort, OperandMethodID:
		return 2
	case OperandSuper:
		return 4
	case OperandClosure:
		return 2 // caller must add 2 per upvalue after reading the count
	default:
		return 0
	}
}
