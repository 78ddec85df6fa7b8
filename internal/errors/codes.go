package errors

// Code represents an error code
type Code string

// Error codes
const (
	CodeInvalidArgument    Code = "INVALID_ARGUMENT"
	CodeNotFound           Code = "NOT_FOUND"
	CodeInternal           Code = "INTERNAL"
	CodeInsufficientFunds  Code = "INSUFFICIENT_FUNDS"
	CodeOutOfBounds        Code = "OUT_OF_BOUNDS"
	CodeTileOccupied       Code = "TILE_OCCUPIED"
	CodeInvalidEventChoice Code = "INVALID_EVENT_CHOICE"
	CodeCorruptSaveData    Code = "CORRUPT_SAVE_DATA"
)

// PlayerMessage returns the short text shown to the player for a failed
// action. Unknown codes fall back to a generic message.
func (c Code) PlayerMessage() string {
	switch c {
	case CodeInsufficientFunds:
		return "cannot afford"
	case CodeOutOfBounds:
		return "out of bounds"
	case CodeTileOccupied:
		return "occupied"
	case CodeInvalidEventChoice:
		return "no decision pending"
	case CodeCorruptSaveData:
		return "save file is damaged"
	case CodeNotFound:
		return "nothing here"
	default:
		return "action failed"
	}
}
