package domain

import (
	"strings"
)

// PathSeparator разделяет метки в материализованном пути подразделения
const PathSeparator = "."

// NormalizeLabel приводит имя подразделения к метке пути:
// пробельные последовательности заменяются подчёркиванием,
// чтобы метка не содержала разделитель и пробелы
func NormalizeLabel(name string) string {
	return strings.Join(strings.Fields(name), "_")
}

// BuildPath вычисляет путь подразделения по его имени и пути родителя.
// Для корневого подразделения (parentPath == "") путь состоит из одной метки.
func BuildPath(name, parentPath string) string {
	label := NormalizeLabel(name)
	if parentPath == "" {
		return label
	}
	return parentPath + PathSeparator + label
}

// IsValidLabel сообщает, может ли имя служить меткой пути:
// после нормализации метка непуста и не содержит разделитель
func IsValidLabel(name string) bool {
	label := NormalizeLabel(name)
	return label != "" && !strings.Contains(label, PathSeparator)
}

// IsDescendantPath сообщает, является ли path строгим потомком ancestor
func IsDescendantPath(path, ancestor string) bool {
	return strings.HasPrefix(path, ancestor+PathSeparator)
}

// RewritePathPrefix заменяет префикс oldPrefix на newPrefix,
// сохраняя оставшиеся метки пути без изменений
func RewritePathPrefix(path, oldPrefix, newPrefix string) string {
	if path == oldPrefix {
		return newPrefix
	}
	if !IsDescendantPath(path, oldPrefix) {
		return path
	}
	return newPrefix + path[len(oldPrefix):]
}

// PathLabels разбивает путь на отдельные метки
func PathLabels(path string) []string {
	if path == "" {
		return nil
	}
	return strings.Split(path, PathSeparator)
}
