package config

var defaultKeys = map[int]string{
	1: " ",
	2: "fj",
	3: "f j",
	4: "dfjk",
	5: "df jk",
	6: "sdfjkl",
	7: "sdf jkl",
	8: "asdfjkl;",
}

// Linux input-event-codes for the keys we map lanes to
var evdevCodes = map[rune]uint16{
	'q': 16, 'w': 17, 'e': 18, 'r': 19, 't': 20, 'y': 21, 'u': 22, 'i': 23, 'o': 24, 'p': 25,
	'a': 30, 's': 31, 'd': 32, 'f': 33, 'g': 34, 'h': 35, 'j': 36, 'k': 37, 'l': 38, ';': 39,
	'z': 44, 'x': 45, 'c': 46, 'v': 47, 'b': 48, 'n': 49, 'm': 50, ',': 51, '.': 52, '/': 53,
	' ': 57,
}

// LaneKeys returns one key per lane.
func (c *Config) LaneKeys(lanes int) []rune {
	if c.Keys != "" {
		return []rune(c.Keys)
	}
	if keys, ok := defaultKeys[lanes]; ok {
		return []rune(keys)
	}
	return []rune(defaultKeys[4])
}

// KeyLanes maps each key to its lane, counting from 1.
func (c *Config) KeyLanes(lanes int) map[rune]int {
	m := map[rune]int{}
	for i, r := range c.LaneKeys(lanes) {
		if i >= lanes {
			break
		}
		m[r] = i + 1
	}
	return m
}

// DeviceCodes maps evdev key codes to lanes. Keys without a known code are
// left out.
func (c *Config) DeviceCodes(lanes int) map[uint16]int {
	m := map[uint16]int{}
	for r, lane := range c.KeyLanes(lanes) {
		if code, ok := evdevCodes[r]; ok {
			m[code] = lane
		}
	}
	return m
}
