package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"os"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/darkclainer/vndic/pkg/parser"
	"github.com/darkclainer/vndic/pkg/querier"
)

const (
	codeErrorArgs = iota + 1
	codeInternalError
)

func exitf(code int, format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format, args...)
	os.Exit(code)
}

func downloadWord(logger *zap.Logger, template, word string, timeout time.Duration) (string, error) {
	remote := querier.NewRemote(nil, nil, &querier.Config{
		URLTemplate: template,
		Timeout:     timeout,
		MaxWorkers:  1,
	}, logger)
	defer remote.Close(context.Background())
	return remote.FetchPage(context.Background(), querier.BuildLookupURL(template, word))
}

func saveWord(path string, content string) {
	if err := ioutil.WriteFile(path, []byte(content), 0660); err != nil {
		exitf(codeInternalError, "can not save word to %s: %s\n",
			path,
			err.Error(),
		)
	}
}

func main() {
	webWord := pflag.StringP("word", "w", "", "word that you want to search in the web")
	localPath := pflag.StringP("file", "f", "", "Local html file for parsing")
	savePath := pflag.StringP("save", "s", "", "name of file where downloaded page will be saved")
	template := pflag.StringP("template", "t", querier.DefaultURLTemplate, "lookup URL, {} is replaced with the word")
	timeout := pflag.DurationP("timeout", "T", 10*time.Second, "request timeout")
	verbose := pflag.BoolP("verbose", "v", false, "log requests to stderr")
	pflag.Parse()

	logger := zap.NewNop()
	if *verbose {
		var err error
		if logger, err = zap.NewDevelopment(); err != nil {
			exitf(codeInternalError, "can not create logger: %s\n", err.Error())
		}
	}
	defer logger.Sync() //nolint:errcheck

	var page string
	switch {
	case *webWord != "" && *localPath != "":
		exitf(codeErrorArgs, "both -w and -f can not be specified at the same time!\n")
	case *webWord != "":
		if !strings.Contains(*template, querier.Placeholder) {
			exitf(codeErrorArgs, "template must contain %s\n", querier.Placeholder)
		}
		content, err := downloadWord(logger, *template, *webWord, *timeout)
		if err != nil {
			exitf(codeInternalError, "can not download word %s: %s\n", *webWord, err.Error())
		}
		if *savePath != "" {
			saveWord(*savePath, content)
		}
		page = content
	case *localPath != "":
		content, err := ioutil.ReadFile(*localPath)
		if err != nil {
			exitf(codeErrorArgs, "can not open file %s: %s\n", *localPath, err.Error())
		}
		page = strings.ToValidUTF8(string(content), "�")
	default:
		exitf(codeErrorArgs, "you should specify either -w or -f\n")
	}

	entry := parser.ParseDictionaryPage(page)
	s, err := json.MarshalIndent(entry, "", "\t")
	if err != nil {
		exitf(codeInternalError, "can not marshal entry: %s\n", err.Error())
	}
	fmt.Printf("%s\n", s)
}
