package service

// pageLimit 非正数取默认值，ceiling 为 0 表示不设上限。
func pageLimit(n, def, ceiling int) int {
	if n <= 0 {
		return def
	}
	if ceiling > 0 && n > ceiling {
		return ceiling
	}
	return n
}
