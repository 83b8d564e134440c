package common

// Virtual key codes for cross-platform input handling.
// These values match GLFW key codes which use ASCII values for printable keys.
// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Key
const (
	KeyW = 87 // W key (ASCII)
	KeyA = 65 // A key (ASCII)
	KeyS = 83 // S key (ASCII)
	KeyD = 68 // D key (ASCII)
	KeyQ = 81 // Q key (ASCII)
	KeyE = 69 // E key (ASCII)
	KeyI = 73 // I key (ASCII)
	KeyJ = 74 // J key (ASCII)
	KeyK = 75 // K key (ASCII)
	KeyL = 76 // L key (ASCII)
	KeyR = 82 // R key (ASCII)
	KeyU = 85 // U key (ASCII)

	KeySpace        = 32  // Spacebar (ASCII)
	KeyMinus        = 45  // - key (ASCII)
	KeyEqual        = 61  // = key (ASCII)
	KeyLeftBracket  = 91  // [ key (ASCII)
	KeyBackslash    = 92  // \ key (ASCII)
	KeyRightBracket = 93  // ] key (ASCII)
	KeyEsc          = 256 // Escape key (GLFW)

	Key1 = 49 // 1 key (ASCII)
	Key2 = 50 // 2 key (ASCII)
	Key3 = 51 // 3 key (ASCII)
)

// Arrow keys (GLFW)
const (
	KeyRight = 262
	KeyLeft  = 263
	KeyDown  = 264
	KeyUp    = 265
)
