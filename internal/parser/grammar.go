package parser

import "regexp"

var (
	locationRe = regexp.MustCompile(`^\[([^\[\](:)]+)(?:\s+\(([^()]*)\))?\]$`)
	actionRe   = regexp.MustCompile(`^> ([^><\[\](:)]+):$`)

	gotoRe           = regexp.MustCompile(`^(jump|call)\s+([^\[\](:)]+)$`)
	conditionRe      = regexp.MustCompile(`^if\s+(.+):$`)
	varSetRe         = regexp.MustCompile(`(?i)^([a-z_][a-z_0-9]*)\s*=\s*(.*)$`)
	inventoryAddRe   = regexp.MustCompile(`^\+\{([^{}()]+)(?:\s+\((.+)\))?\s*\}$`)
	inventoryRemRe   = regexp.MustCompile(`^-\{([^{}]+)\}$`)
	inventoryClearRe = regexp.MustCompile(`^-\{\}$`)
	dialogueRe       = regexp.MustCompile(`(?i)^([a-z_][a-z0-9_]{0,19}):\s(.+)$`)
	clearRe          = regexp.MustCompile(`^\[\]$`)
	pauseRe          = regexp.MustCompile(`^\.\.\.$`)
	stopRe           = regexp.MustCompile(`^\.$`)
	commentRe        = regexp.MustCompile(`^//\s+(.+)$`)
	characterRe      = regexp.MustCompile(`^character ([a-zA-Z_][a-zA-Z0-9_]*)\s+=([^=]+)$`)
	menuRe           = regexp.MustCompile(`^\+\s([^:]+):$`)
)

const elseLine = "else:"
