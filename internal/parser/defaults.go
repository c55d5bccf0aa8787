package parser

func DefaultExtractorForLanguage(lang string) (Extractor, bool) {
	switch lang {
	case "python":
		return &PythonExtractor{}, true
	case "go":
		return &GoExtractor{}, true
	case "java":
		return &javaExtractor{}, true
	case "rust":
		return &rustExtractor{}, true
	case "javascript":
		return newJavaScriptExtractor("javascript"), true
	case "typescript":
		return newTypeScriptExtractor("typescript"), true
	case "tsx":
		return newTypeScriptExtractor("tsx"), true
	default:
		return nil, false
	}
}
