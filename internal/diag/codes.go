package diag

// Syntax error codes.
const (
	CodeInconsistentIndentation = "INCONSISTENT_INDENTATION"
	CodeInvalidIndentation      = "INVALID_INDENTATION"
	CodeNonZeroIndentation      = "NON_ZERO_INDENTATION"
	CodeUnexpectedLine          = "UNEXPECTED_LINE"
	CodeUnexpectedElse          = "UNEXPECTED_ELSE"
	CodeEmptyLocation           = "EMPTY_LOCATION"
	CodeEmptyAction             = "EMPTY_ACTION"
	CodeEmptyIf                 = "EMPTY_IF"
	CodeEmptyElse               = "EMPTY_ELSE"
	CodeEmptyMenuOption         = "EMPTY_MENU_OPTION"

	CodeInvalidItem         = "INVALID_ITEM"
	CodeUnexpectedCharacter = "UNEXPECTED_CHARACTER"
	CodeOddParentheses      = "ODD_PARENTHESES"
	CodeEmptyStack          = "EMPTY_STACK"
	CodeLowStack            = "LOW_STACK"
	CodeInvalidStatement    = "INVALID_STATEMENT"
)

// Analysis error codes.
const (
	CodeVariableIsReadOnly      = "VARIABLE_IS_READ_ONLY"
	CodeUnknownVariable         = "UNKNOWN_VARIABLE"
	CodeUnknownItem             = "UNKNOWN_ITEM"
	CodeRedefinedCharacter      = "REDEFINED_CHARACTER"
	CodeUnknownCharacter        = "UNKNOWN_CHARACTER"
	CodeRedefined               = "REDEFINED"
	CodeNoEntryPointFound       = "NO_ENTRY_POINT_FOUND"
	CodeUnknownAction           = "UNKNOWN_ACTION"
	CodeUnknownDestination      = "UNKNOWN_DESTINATION"
	CodeCallIsNotAllowedInSetup = "CALL_IS_NOT_ALLOWED_IN_SETUP"
)

// Runtime error codes.
const (
	CodeDivisionByZero     = "DIVISION_BY_ZERO"
	CodeUnknownOperator    = "UNKNOWN_OP"
	CodeInvalidToken       = "INVALID_TOKEN_IN_STACK"
	CodeUnknownOpcode      = "UNKNOWN_OPCODE"
	CodeUnknownSetupOpcode = "UNKNOWN_SETUP_OPCODE"
	CodeUnmatchedBlock     = "UNMATCHED_BLOCK"
	CodeEndlessLoop        = "ENDLESS_LOOP"
	CodeInvalidState       = "INVALID_STATE"
	CodeNotSuspended       = "NOT_SUSPENDED"
)
