package translation

import "strings"

const (
	// TargetEnglish 中文语境下的目标语言
	TargetEnglish = "en"
	// TargetChinese 其他情况的目标语言
	TargetChinese = "zh-CN"
)

// chineseLikePatterns 视为“已是中文语境”的语言标识子串。
// "csharp" 是历史遗留规则，需要保留。
var chineseLikePatterns = []string{"zh", "chinese", "csharp"}

// ResolveTarget 根据文档声明的语言标识选择目标语言
//
// 只检查标识本身，不检测内容：标识（小写后）包含任一模式时译为英文，否则译为简体中文。
func ResolveTarget(sourceLanguageTag string) string {
	tag := strings.ToLower(sourceLanguageTag)
	for _, p := range chineseLikePatterns {
		if strings.Contains(tag, p) {
			return TargetEnglish
		}
	}
	return TargetChinese
}
