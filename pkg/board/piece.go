package board

// Piece represents a chess piece (King, Pawn, etc) with no color. 3 bits.
type Piece uint8

const (
	NoPiece Piece = iota
	Pawn
	Bishop
	Knight
	Rook
	Queen
	King
)

const (
	ZeroPiece Piece = 0
	NumPieces Piece = 7
)

// KingQueenRookKnightBishop lists the non-pawn piece kinds, the king first and the rest in
// descending nominal value, for officer attack iteration (pawns need the dedicated PawnCaptureboard instead).
var KingQueenRookKnightBishop = [...]Piece{King, Queen, Rook, Knight, Bishop}

func ParsePiece(r rune) (Piece, bool) {
	switch r {
	case 'p', 'P':
		return Pawn, true
	case 'b', 'B':
		return Bishop, true
	case 'n', 'N':
		return Knight, true
	case 'r', 'R':
		return Rook, true
	case 'q', 'Q':
		return Queen, true
	case 'k', 'K':
		return King, true
	default:
		return NoPiece, false
	}
}

func (p Piece) IsValid() bool {
	return Pawn <= p && p <= King
}

// NominalValue returns the conventional centipawn value of a piece kind, used for move
// ordering (MVV-LVA) and quick material comparisons. NoPiece and King both return 0: a king
// is never captured in a legal position, so NominalValue(King) only ever appears when
// valuing the attacker of a move, not its victim.
func NominalValue(p Piece) int {
	switch p {
	case Pawn:
		return 100
	case Knight, Bishop:
		return 320
	case Rook:
		return 500
	case Queen:
		return 900
	default:
		return 0
	}
}

// ByMVVLVA orders moves by most-valuable-victim, least-valuable-attacker: captures of
// higher-value pieces sort first, ties broken in favor of the cheaper attacker.
type ByMVVLVA []Move

func (ms ByMVVLVA) Len() int      { return len(ms) }
func (ms ByMVVLVA) Swap(i, j int) { ms[i], ms[j] = ms[j], ms[i] }
func (ms ByMVVLVA) Less(i, j int) bool {
	vi := NominalValue(ms[i].Capture)*8 - NominalValue(ms[i].Piece)
	vj := NominalValue(ms[j].Capture)*8 - NominalValue(ms[j].Piece)
	return vi > vj
}

func (p Piece) String() string {
	switch p {
	case NoPiece:
		return " "
	case Pawn:
		return "p"
	case Bishop:
		return "b"
	case Knight:
		return "n"
	case Rook:
		return "r"
	case Queen:
		return "q"
	case King:
		return "k"
	default:
		return "?"
	}
}
