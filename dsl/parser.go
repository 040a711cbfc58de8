// Package dsl 解析屏幕描述语言：doc 头、meta/resources 段落和绑定到显示屏的 display 树。
package dsl

import (
	"fmt"
	"io"
	"strconv"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var (
	screenLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Whitespace", Pattern: `[ \t\r]+`},
		{Name: "Newline", Pattern: `\n+`},
		{Name: "BlockComment", Pattern: `/\*[^*]*\*+(?:[^/*][^*]*\*+)*/`},
		{Name: "LineComment", Pattern: `//[^\n]*`},
		{Name: "Number", Pattern: `-?\d+(?:px|%)?`},
		{Name: "String", Pattern: `"(?:\\.|[^"])*"`},
		{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_-]*`},
		{Name: "Symbol", Pattern: `[][(),.:;=]`},
		{Name: "LBrace", Pattern: `{`},
		{Name: "RBrace", Pattern: `}`},
	})

	symbols   = screenLexer.Symbols()
	kindNames = lexer.SymbolsByRune(screenLexer)

	screenParser = participle.MustBuild[Document](
		participle.Lexer(screenLexer),
		participle.Elide("Whitespace", "LineComment", "BlockComment"),
	)
)

// Document 是一份屏幕描述的根节点：doc <Name> <Version> { ... }。
type Document struct {
	Pos      lexer.Position `parser:"" json:"-"`
	Name     string         `parser:"Newline* 'doc' @Ident"`
	Version  string         `parser:"@Ident"`
	Sections []*Section     `parser:"'{' Newline* ( @@ Newline* )* '}' Newline*"`
}

// Section 是 meta、resources 或 display 之一。
type Section struct {
	Meta      *MetaSection      `parser:"  @@"`
	Resources *ResourcesSection `parser:"| @@"`
	Display   *DisplaySection   `parser:"| @@"`
}

// Kind 返回段落类型名。
func (s *Section) Kind() string {
	if s == nil {
		return "unknown"
	}
	switch {
	case s.Display != nil:
		return "display"
	case s.Resources != nil:
		return "resources"
	case s.Meta != nil:
		return "meta"
	}
	return "unknown"
}

type MetaSection struct {
	Block *Block `parser:"'meta' @@"`
}

// ResourcesSection 声明图片与样式。
type ResourcesSection struct {
	Block *Block `parser:"'resources' @@"`
}

// DisplaySection 把根容器绑定到屏幕尺寸，例如 display 296 128 { column { ... } }。
type DisplaySection struct {
	Pos    lexer.Position `parser:"" json:"-"`
	Params []*Arg         `parser:"'display' @@*"`
	Block  *Block         `parser:"@@"`
}

// Block 是花括号包围的语句列表，语句之间用换行或分号分隔。
type Block struct {
	Statements []*Statement `parser:"'{' Newline* ( @@ ( ';' | Newline )* )* '}'"`
}

type Statement struct {
	Assignment *Assignment  `parser:"  @@"`
	Command    *Command     `parser:"| @@"`
	Text       *TextLiteral `parser:"| @@"`
}

// Assignment 是 key: value 形式的属性。
type Assignment struct {
	Key   string `parser:"@Ident"`
	Value *Value `parser:"':' Newline* @@"`
}

// Command 是节点或资源声明：名称、参数列表和可选的子块。
type Command struct {
	Pos   lexer.Position `parser:"" json:"-"`
	Name  string         `parser:"@Ident"`
	Args  []*Arg         `parser:"@@*"`
	Block *Block         `parser:"( Newline* @@ )?"`
}

// TextLiteral 是块内单独出现的字符串，作为 text 的内容。
type TextLiteral struct {
	Value Quoted `parser:"@String"`
}

// Value 是属性值。
type Value struct {
	String *Quoted     `parser:"  @String"`
	Number *string     `parser:"| @Number"`
	Ident  *string     `parser:"| @Ident"`
	Array  *ArrayValue `parser:"| @@"`
}

// ArrayValue 是 [ ... ] 列表，元素之间用逗号或换行分隔。
type ArrayValue struct {
	Values []*Value `parser:"'[' Newline* ( @@ ( (',' | Newline+) Newline* @@ )* )? Newline* ']'"`
}

// Arg 是命令的一个参数 token。字符串参数的 Text 已去掉引号，Raw 保留原文。
type Arg struct {
	Kind string         `json:"kind"`
	Text string         `json:"text"`
	Raw  string         `json:"raw"`
	Pos  lexer.Position `json:"-"`
}

// Parse 让 Arg 作为语法中的原子：遇到换行、花括号或分号时停止。
func (a *Arg) Parse(lex *lexer.PeekingLexer) error {
	if endOfArgs(lex.Peek()) {
		return participle.NextMatch
	}
	tok := lex.Next()
	text := tok.Value
	if tok.Type == symbols["String"] {
		unquoted, err := strconv.Unquote(tok.Value)
		if err != nil {
			return fmt.Errorf("%s: 无效的字符串 %s: %w", tok.Pos, tok.Value, err)
		}
		text = unquoted
	}
	kind := kindNames[tok.Type]
	if kind == "" {
		kind = fmt.Sprintf("#%d", tok.Type)
	}
	*a = Arg{Kind: kind, Text: text, Raw: tok.Value, Pos: tok.Pos}
	return nil
}

func endOfArgs(tok *lexer.Token) bool {
	if tok == nil || tok.EOF() {
		return true
	}
	switch tok.Type {
	case symbols["Newline"], symbols["LBrace"], symbols["RBrace"]:
		return true
	case symbols["Symbol"]:
		return tok.Value == ";"
	}
	return false
}

// Quoted 在捕获时对字符串去引号。
type Quoted string

func (q *Quoted) Capture(values []string) error {
	if len(values) == 0 {
		return fmt.Errorf("字符串字面量为空")
	}
	s, err := strconv.Unquote(values[0])
	if err != nil {
		return err
	}
	*q = Quoted(s)
	return nil
}

// Parse 从 r 读取并解析屏幕描述。
func Parse(r io.Reader) (*Document, error) {
	return screenParser.Parse("", r)
}

// ParseString 解析字符串形式的屏幕描述。
func ParseString(input string) (*Document, error) {
	return screenParser.ParseString("", input)
}

// Display 返回第一个 display 段落，没有时返回 nil。
func (d *Document) Display() *DisplaySection {
	if d == nil {
		return nil
	}
	for _, section := range d.Sections {
		if section.Display != nil {
			return section.Display
		}
	}
	return nil
}
