package games

import (
	"fmt"

	"github.com/mcoot/partyarcade/internal/model"
)

func cell(row, col int) model.Move {
	return model.Move(fmt.Sprintf(`{"row":%d,"col":%d}`, row, col))
}

func column(col int) model.Move {
	return model.Move(fmt.Sprintf(`{"column":%d}`, col))
}

func choice(sign string) model.Move {
	return model.Move(fmt.Sprintf(`{"choice":%q}`, sign))
}
