package parser

import (
	"github.com/metaphox/dhall-go/ast"
	"github.com/metaphox/dhall-go/lexer"
)

// ── Temporal literals ─────────────────────────────────────────────────────────
//
//	2024-02-29                  DateLit
//	12:30:00.5                  TimeLit
//	+05:30                      TimeZoneLit
//	2024-02-29T12:30:00         { date, time }
//	12:30:00Z                   { time, timeZone }
//	2024-02-29T12:30:00+01:00   { date, time, timeZone }
//
// Fields out of range are a syntax error, reported at the offending field.

// parseTemporal returns errNoMatch, with the cursor at start, when the input
// does not have the shape of a temporal literal.
func (p *Parser) parseTemporal(start int) (ast.Expr, error) {
	date, err := p.scanDate(start)
	if err != errNoMatch {
		if err != nil {
			return nil, err
		}
		if !p.l.Accept("T") {
			return date, nil
		}
		t, err := p.scanTime(p.l.Offset())
		if err == errNoMatch {
			return nil, p.fatal("time")
		}
		if err != nil {
			return nil, err
		}
		fields := []ast.Field{
			{Loc: date.Loc, Label: "date", Value: date},
			{Loc: t.Loc, Label: "time", Value: t},
		}
		tz, err := p.scanTimeOffset(true)
		switch {
		case err == nil:
			fields = append(fields, ast.Field{Loc: tz.Loc, Label: "timeZone", Value: tz})
		case err != errNoMatch:
			return nil, err
		}
		return &ast.RecordLit{Loc: p.pos(start), Fields: fields}, nil
	}

	t, err := p.scanTime(start)
	if err != errNoMatch {
		if err != nil {
			return nil, err
		}
		tz, err := p.scanTimeOffset(true)
		switch {
		case err == errNoMatch:
			return t, nil
		case err != nil:
			return nil, err
		}
		return &ast.RecordLit{Loc: p.pos(start), Fields: []ast.Field{
			{Loc: t.Loc, Label: "time", Value: t},
			{Loc: tz.Loc, Label: "timeZone", Value: tz},
		}}, nil
	}

	tz, err := p.scanTimeOffset(false)
	if err != nil {
		return nil, err
	}
	return tz, nil
}

// scanDate reads YYYY-MM-DD.
func (p *Parser) scanDate(start int) (*ast.DateLit, error) {
	year, ok := p.fixedDigits(4)
	if !ok || !p.l.Accept("-") {
		p.l.Reset(start)
		return nil, errNoMatch
	}
	monthOff := p.l.Offset()
	month, ok := p.fixedDigits(2)
	if !ok || !p.l.Accept("-") {
		p.l.Reset(start)
		return nil, errNoMatch
	}
	dayOff := p.l.Offset()
	day, ok := p.fixedDigits(2)
	if !ok {
		p.l.Reset(start)
		return nil, errNoMatch
	}
	if month < 1 || month > 12 {
		return nil, p.fatalMsg(monthOff, "month %02d is out of range", month)
	}
	if day < 1 || day > daysIn(year, month) {
		return nil, p.fatalMsg(dayOff, "day %02d is out of range for %04d-%02d", day, year, month)
	}
	return &ast.DateLit{Loc: p.pos(start), Year: year, Month: month, Day: day}, nil
}

// scanTime reads HH:MM:SS[.fraction].
func (p *Parser) scanTime(start int) (*ast.TimeLit, error) {
	hour, ok := p.fixedDigits(2)
	if !ok || !p.l.Accept(":") {
		p.l.Reset(start)
		return nil, errNoMatch
	}
	minOff := p.l.Offset()
	minute, ok := p.fixedDigits(2)
	if !ok || !p.l.Accept(":") {
		p.l.Reset(start)
		return nil, errNoMatch
	}
	secOff := p.l.Offset()
	second, ok := p.fixedDigits(2)
	if !ok {
		p.l.Reset(start)
		return nil, errNoMatch
	}
	t := &ast.TimeLit{Loc: p.pos(start), Hour: hour, Minute: minute, Second: second}
	if p.l.Peek() == '.' && lexer.IsDigit(p.l.PeekAt(1)) {
		p.l.Advance(1)
		from := p.l.Offset()
		p.digits()
		t.Fraction = p.l.Slice(from, p.l.Offset())
	}
	switch {
	case hour > 23:
		return nil, p.fatalMsg(start, "hour %02d is out of range", hour)
	case minute > 59:
		return nil, p.fatalMsg(minOff, "minute %02d is out of range", minute)
	case second > 59:
		return nil, p.fatalMsg(secOff, "second %02d is out of range", second)
	}
	return t, nil
}

// scanTimeOffset reads Z (when allowZ) or a signed HH:MM offset.
func (p *Parser) scanTimeOffset(allowZ bool) (*ast.TimeZoneLit, error) {
	start := p.l.Offset()
	if allowZ && p.l.Accept("Z") {
		return &ast.TimeZoneLit{Loc: p.pos(start)}, nil
	}
	sign := p.l.Peek()
	if sign != '+' && sign != '-' {
		return nil, errNoMatch
	}
	p.l.Advance(1)
	hourOff := p.l.Offset()
	hour, ok := p.fixedDigits(2)
	if !ok || !p.l.Accept(":") {
		p.l.Reset(start)
		return nil, errNoMatch
	}
	minOff := p.l.Offset()
	minute, ok := p.fixedDigits(2)
	if !ok {
		p.l.Reset(start)
		return nil, errNoMatch
	}
	if hour > 23 {
		return nil, p.fatalMsg(hourOff, "time zone hour %02d is out of range", hour)
	}
	if minute > 59 {
		return nil, p.fatalMsg(minOff, "time zone minute %02d is out of range", minute)
	}
	minutes := hour*60 + minute
	if sign == '-' {
		minutes = -minutes
	}
	return &ast.TimeZoneLit{Loc: p.pos(start), Minutes: minutes}, nil
}

// fixedDigits consumes exactly n decimal digits and returns their value.
// It consumes nothing when fewer than n digits are present, and fails when a
// further digit follows.
func (p *Parser) fixedDigits(n int) (int, bool) {
	v := 0
	for i := 0; i < n; i++ {
		c := p.l.PeekAt(i)
		if !lexer.IsDigit(c) {
			return 0, false
		}
		v = v*10 + int(c-'0')
	}
	if lexer.IsDigit(p.l.PeekAt(n)) {
		return 0, false
	}
	p.l.Advance(n)
	return v, true
}

func daysIn(year, month int) int {
	switch month {
	case 2:
		if year%4 == 0 && (year%100 != 0 || year%400 == 0) {
			return 29
		}
		return 28
	case 4, 6, 9, 11:
		return 30
	}
	return 31
}
