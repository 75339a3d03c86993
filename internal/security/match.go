package security

// HasRole 检查角色集合是否命中指定角色
// 拥有超级管理员角色时恒为真；集合中的角色支持简单通配符（如 dept:*）。
func HasRole(owned []string, role string) bool {
	for _, r := range owned {
		if r == SuperAdminRole || simpleMatch(r, role) {
			return true
		}
	}
	return false
}

// HasAnyRole 检查角色集合是否命中任一指定角色
func HasAnyRole(owned []string, roles ...string) bool {
	for _, role := range roles {
		if HasRole(owned, role) {
			return true
		}
	}
	return false
}

// HasPermission 检查权限集合是否命中指定权限
// 拥有全量权限 *:*:* 时恒为真；集合中的权限支持简单通配符（如 system:user:*）。
func HasPermission(owned []string, permission string) bool {
	for _, p := range owned {
		if p == AllPermission || simpleMatch(p, permission) {
			return true
		}
	}
	return false
}

// HasAnyPermission 检查权限集合是否命中任一指定权限
func HasAnyPermission(owned []string, permissions ...string) bool {
	for _, permission := range permissions {
		if HasPermission(owned, permission) {
			return true
		}
	}
	return false
}

// MatchPath 检查请求路径是否命中任一路径模式（用于认证豁免路径）
func MatchPath(path string, patterns []string) bool {
	for _, pattern := range patterns {
		if simpleMatch(pattern, path) {
			return true
		}
	}
	return false
}

// simpleMatch 简单通配符匹配，* 匹配任意长度的任意字符，其余字符精确比较
func simpleMatch(pattern, s string) bool {
	pi, si := 0, 0
	star, mark := -1, 0
	for si < len(s) {
		switch {
		case pi < len(pattern) && pattern[pi] == '*':
			star, mark = pi, si
			pi++
		case pi < len(pattern) && pattern[pi] == s[si]:
			pi++
			si++
		case star >= 0:
			// 回溯到最近的 *，让它多吞一个字符
			mark++
			pi, si = star+1, mark
		default:
			return false
		}
	}
	for pi < len(pattern) && pattern[pi] == '*' {
		pi++
	}
	return pi == len(pattern)
}
