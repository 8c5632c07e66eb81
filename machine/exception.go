package machine

var excNames = [16]string{
	1:  "Reset",
	2:  "NMI",
	3:  "HardFault",
	4:  "MemManage",
	5:  "BusFault",
	6:  "UsageFault",
	11: "SVCall",
	12: "DebugMonitor",
	14: "PendSV",
	15: "SysTick",
}

// Exception reports a core fault through the failsafe writer and halts. The
// reporting path must not allocate.
func Exception(num uint32) {
	var buf [8]byte
	DefaultWrite(2, []byte("Unhandled "))
	name := excNames[num&15]
	if name == "" {
		name = "Reserved"
	}
	DefaultWrite(2, []byte(name))
	DefaultWrite(2, []byte(" Exception\nvector   0x"))
	DefaultWrite(2, itoa(buf[:], num))
	DefaultWrite(2, []byte("\n"))
	panic("unhandled exception")
}

func itoa(buf []byte, num uint32) []byte {
	for i := range 8 {
		char := byte(num>>(28-(4*i))) & 0xf
		if char > 9 {
			char += 'a' - 10
		} else {
			char += '0'
		}
		buf[i] = char
	}
	return buf
}
