package fold

import "github.com/turbofold/foldengine/internal/apperr"

func outOfRangeContext(playerIndex uint8) error {
	return apperr.New(apperr.KindInvalidPlayerIndex, "no joined player at index %d", playerIndex)
}
