package document

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/traditionalchinese"
	xunicode "golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ErrUnknownEncoding 文档既不是 UTF-8/UTF-16，也无法按常见的本地编码完整解码
var ErrUnknownEncoding = errors.New("unknown text encoding")

// LanguageMarkdown Markdown 文档的语言标识
const LanguageMarkdown = "markdown"

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// legacyEncodings 非 UTF-8 文档依次尝试的编码
var legacyEncodings = []encoding.Encoding{
	simplifiedchinese.GB18030,
	traditionalchinese.Big5,
	japanese.ShiftJIS,
	korean.EUCKR,
	charmap.Windows1252,
}

// Source 一个待预览/翻译的文档
type Source struct {
	Path       string
	FileName   string
	LanguageID string // 编辑器风格的语言标识，例如 markdown、csharp
	Text       string
}

// languageIDs 扩展名到语言标识的映射
var languageIDs = map[string]string{
	".md":       LanguageMarkdown,
	".markdown": LanguageMarkdown,
	".txt":      "plaintext",
	".go":       "go",
	".py":       "python",
	".js":       "javascript",
	".mjs":      "javascript",
	".ts":       "typescript",
	".tsx":      "typescriptreact",
	".jsx":      "javascriptreact",
	".cs":       "csharp",
	".java":     "java",
	".c":        "c",
	".h":        "c",
	".cpp":      "cpp",
	".hpp":      "cpp",
	".rs":       "rust",
	".rb":       "ruby",
	".php":      "php",
	".html":     "html",
	".htm":      "html",
	".css":      "css",
	".json":     "json",
	".yaml":     "yaml",
	".yml":      "yaml",
	".toml":     "toml",
	".xml":      "xml",
	".sh":       "shellscript",
	".sql":      "sql",
	".tex":      "latex",
	".rst":      "restructuredtext",
}

// LanguageID 根据文件扩展名推断语言标识，未知扩展名返回 plaintext
func LanguageID(path string) string {
	if id, ok := languageIDs[strings.ToLower(filepath.Ext(path))]; ok {
		return id
	}
	return "plaintext"
}

// Load 读取文档，去除 UTF-8/UTF-16 BOM
func Load(path string) (*Source, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}

	text, err := Decode(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to decode document %s: %w", path, err)
	}

	return &Source{
		Path:       path,
		FileName:   filepath.Base(path),
		LanguageID: LanguageID(path),
		Text:       text,
	}, nil
}

// Decode 把文件内容解码为 UTF-8 文本
//
// 有 UTF-16 BOM 时按 UTF-16 解码；去掉 UTF-8 BOM 后是合法 UTF-8 的原样返回；
// 否则依次尝试 legacyEncodings，只接受解码后没有替换字符和控制字符的结果。
// 都不符合时返回 ErrUnknownEncoding，不做有损替换。
func Decode(raw []byte) (string, error) {
	if bytes.HasPrefix(raw, []byte{0xFF, 0xFE}) || bytes.HasPrefix(raw, []byte{0xFE, 0xFF}) {
		out, _, err := transform.Bytes(xunicode.BOMOverride(xunicode.UTF8.NewDecoder()), raw)
		if err != nil {
			return "", err
		}
		return string(out), nil
	}

	raw = bytes.TrimPrefix(raw, utf8BOM)
	if utf8.Valid(raw) {
		return string(raw), nil
	}

	for _, enc := range legacyEncodings {
		out, _, err := transform.Bytes(enc.NewDecoder(), raw)
		if err == nil && isCleanText(out) {
			return string(out), nil
		}
	}
	return "", ErrUnknownEncoding
}

// isCleanText 解码结果中不能出现替换字符或不可打印的控制字符
func isCleanText(b []byte) bool {
	for _, r := range string(b) {
		if r == utf8.RuneError || !(unicode.IsPrint(r) || unicode.IsSpace(r)) {
			return false
		}
	}
	return true
}

// IsMarkdownLanguage 语言标识是否表示 Markdown
func IsMarkdownLanguage(languageID string) bool {
	return languageID == LanguageMarkdown
}

// IsMarkdown 是否为 Markdown 文档
func (s *Source) IsMarkdown() bool {
	return IsMarkdownLanguage(s.LanguageID)
}
