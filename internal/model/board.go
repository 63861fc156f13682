package model

// BoardSize is the side length of the Gomoku grid
const BoardSize = 15

// Board is a BoardSize x BoardSize grid of cell values.
// 0 means empty; any other value is a stone marker chosen by the client.
// The server validates shape, not move legality.
type Board [][]int

// NewBoard returns an empty board
func NewBoard() Board {
	board := make(Board, BoardSize)
	for i := range board {
		board[i] = make([]int, BoardSize)
	}
	return board
}

// Clone returns a deep copy of the board
func (b Board) Clone() Board {
	if b == nil {
		return nil
	}
	clone := make(Board, len(b))
	for i, row := range b {
		clone[i] = append([]int(nil), row...)
	}
	return clone
}

// Validate checks that the board is exactly BoardSize x BoardSize
// with non-negative cells
func (b Board) Validate() error {
	if len(b) != BoardSize {
		return ErrInvalidBoard
	}
	for _, row := range b {
		if len(row) != BoardSize {
			return ErrInvalidBoard
		}
		for _, cell := range row {
			if cell < 0 {
				return ErrInvalidBoard
			}
		}
	}
	return nil
}
