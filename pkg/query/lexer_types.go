package query

import "fmt"

// Token represents a lexical token
type Token struct {
	Type   TokenType
	Value  string
	Pos    int
	Line   int
	Column int
}

// TokenType represents the type of a token
type TokenType int

const (
	// Special tokens
	TokenEOF TokenType = iota
	TokenError

	// Keywords
	TokenMatch
	TokenWhere
	TokenReturn
	TokenCreate
	TokenDelete
	TokenDetach
	TokenSet
	TokenWith
	TokenLimit
	TokenSkip
	TokenOrder
	TokenBy
	TokenAsc
	TokenDesc
	TokenDistinct
	TokenAs
	TokenAnd
	TokenOr
	TokenNot
	TokenIs
	TokenIn
	TokenCase
	TokenWhen
	TokenThen
	TokenElse
	TokenEnd

	// Identifiers and literals
	TokenIdentifier
	TokenParameter
	TokenString
	TokenNumber
	TokenTrue
	TokenFalse
	TokenNull

	// Operators
	TokenEquals        // =
	TokenNotEquals     // !=, <>
	TokenLessThan      // <
	TokenGreaterThan   // >
	TokenLessEquals    // <=
	TokenGreaterEquals // >=
	TokenPlus          // +
	TokenMinus         // -
	TokenStar          // *
	TokenSlash         // /
	TokenPercent       // %
	TokenDot           // .
	TokenColon         // :
	TokenComma         // ,
	TokenSemicolon     // ;

	// Delimiters
	TokenLeftParen    // (
	TokenRightParen   // )
	TokenLeftBracket  // [
	TokenRightBracket // ]
	TokenLeftBrace    // {
	TokenRightBrace   // }

	// Relationship arrows
	TokenArrowLeft  // <-
	TokenArrowRight // ->
)

var keywords = map[string]TokenType{
	"MATCH":    TokenMatch,
	"WHERE":    TokenWhere,
	"RETURN":   TokenReturn,
	"CREATE":   TokenCreate,
	"DELETE":   TokenDelete,
	"DETACH":   TokenDetach,
	"SET":      TokenSet,
	"WITH":     TokenWith,
	"LIMIT":    TokenLimit,
	"SKIP":     TokenSkip,
	"ORDER":    TokenOrder,
	"BY":       TokenBy,
	"ASC":      TokenAsc,
	"DESC":     TokenDesc,
	"DISTINCT": TokenDistinct,
	"AS":       TokenAs,
	"AND":      TokenAnd,
	"OR":       TokenOr,
	"NOT":      TokenNot,
	"IS":       TokenIs,
	"IN":       TokenIn,
	"CASE":     TokenCase,
	"WHEN":     TokenWhen,
	"THEN":     TokenThen,
	"ELSE":     TokenElse,
	"END":      TokenEnd,
	"TRUE":     TokenTrue,
	"FALSE":    TokenFalse,
	"NULL":     TokenNull,
}

func (t TokenType) String() string {
	switch t {
	case TokenEOF:
		return "EOF"
	case TokenError:
		return "ERROR"
	case TokenMatch:
		return "MATCH"
	case TokenWhere:
		return "WHERE"
	case TokenReturn:
		return "RETURN"
	case TokenCreate:
		return "CREATE"
	case TokenDelete:
		return "DELETE"
	case TokenSet:
		return "SET"
	case TokenWith:
		return "WITH"
	case TokenCase:
		return "CASE"
	case TokenWhen:
		return "WHEN"
	case TokenThen:
		return "THEN"
	case TokenElse:
		return "ELSE"
	case TokenEnd:
		return "END"
	case TokenIdentifier:
		return "IDENTIFIER"
	case TokenParameter:
		return "PARAMETER"
	case TokenString:
		return "STRING"
	case TokenNumber:
		return "NUMBER"
	case TokenNull:
		return "NULL"
	default:
		return fmt.Sprintf("Token(%d)", int(t))
	}
}
