// Package web 内嵌单页界面的模板与静态资源
package web

import (
	"embed"
	"html/template"
	"io/fs"
	"net/http"
)

//go:embed templates/*.tmpl static/*
var assets embed.FS

// ParseTemplates 解析内嵌模板
func ParseTemplates() (*template.Template, error) {
	return template.ParseFS(assets, "templates/*.tmpl")
}

// StaticFS 返回 /static 下的静态资源
func StaticFS() http.FileSystem {
	sub, err := fs.Sub(assets, "static")
	if err != nil {
		panic(err)
	}
	return http.FS(sub)
}
