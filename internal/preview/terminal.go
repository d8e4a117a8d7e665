package preview

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
)

// TerminalSink 在终端中渲染预览
type TerminalSink struct {
	mu sync.Mutex
	w  io.Writer

	title      *color.Color
	badge      *color.Color
	translated *color.Color
	notice     *color.Color
}

// NewTerminalSink 创建终端渲染端
func NewTerminalSink(w io.Writer) *TerminalSink {
	return &TerminalSink{
		w:          w,
		title:      color.New(color.Bold),
		badge:      color.New(color.FgBlack, color.BgCyan),
		translated: color.New(color.FgWhite, color.BgGreen),
		notice:     color.New(color.Faint),
	}
}

// Post 实现 Sink
func (s *TerminalSink) Post(msg Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch msg.Command {
	case CommandUpdateContent:
		return s.renderContent(msg)
	case CommandTranslateComplete:
		_, err := s.notice.Fprintln(s.w, "(translation failed, showing original content)")
		return err
	default:
		return fmt.Errorf("unknown preview command: %s", msg.Command)
	}
}

func (s *TerminalSink) renderContent(msg Message) error {
	fileName := msg.FileName
	if fileName == "" {
		fileName = "Untitled"
	}

	// 先写入缓冲区，只在最后一次写出时检查错误
	var buf bytes.Buffer
	header := fileName
	s.title.Fprint(&buf, fileName)
	if msg.Language != "" {
		badge := " " + msg.Language + " "
		header += " " + badge
		buf.WriteString(" ")
		s.badge.Fprint(&buf, badge)
	}
	if msg.IsTranslated {
		badge := " Translated "
		header += " " + badge
		buf.WriteString(" ")
		s.translated.Fprint(&buf, badge)
	}
	buf.WriteString("\n")

	// 按显示宽度画分隔线，中文文件名占两列
	width := runewidth.StringWidth(header)
	if width < 40 {
		width = 40
	}
	buf.WriteString(strings.Repeat("─", width) + "\n")

	content := strings.TrimRight(msg.Content, "\n")
	if isEmptyContent(content) {
		content = EmptyContentText
	}
	buf.WriteString(content + "\n")

	_, err := s.w.Write(buf.Bytes())
	return err
}
