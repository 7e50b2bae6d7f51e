/*
 * Filename: /Users/marcin/code/sbh/plot.go
 * Path: /Users/marcin/code/sbh
 * Created Date: Friday, March 15th 2024, 6:27:02 pm
 * Author: marcin
 *
 * Copyright (c) 2024 Marcin Konicki
 */

package sbh

import (
	"net/http"
	"os"
	"strconv"

	"github.com/gobuffalo/packr"
)

// Plotter serves an accuracy/runtime chart over a benchmark CSV file
type Plotter struct {
	CSVFile string
	Port    int
}

// Run copies the chart page next to the CSV and serves the directory
func (r *Plotter) Run() {
	box := packr.NewBox("./templates")
	port := r.Port
	if port == 0 {
		port = 3000
	}

	f, _ := os.Create("index.html")
	s, _ := box.FindString("index.html")
	_, _ = f.WriteString(s)
	_ = f.Sync()

	http.Handle("/", http.FileServer(http.Dir(".")))

	for {
		log.Noticef("Serving benchmark chart for `%s` on localhost:%d ...", r.CSVFile, port)
		if err := http.ListenAndServe(":"+strconv.Itoa(port), nil); err != nil {
			log.Debug(err)
			port++
		} else {
			break
		}
	}
	_ = f.Close()
}
