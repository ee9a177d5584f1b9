package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net"
	"net/url"
	"os"
	"strings"

	"github.com/olekukonko/tablewriter"
)

func main() {
	os.Exit(run())
}

func run() int {
	logbuffer := &bytes.Buffer{}
	logger := log.New(logbuffer, "", log.Flags())

	defer func() int {
		if r := recover(); r != nil {
			logger.Println("Fatal error:", r)
			fmt.Print(logbuffer)
			return 1
		}
		return 0
	}()

	endpoint := flag.String("endpoint", "tcp://localhost:9002", "admin socket to connect to")
	injson := flag.Bool("json", false, "print the raw JSON response instead of a table")
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		fmt.Println("Usage:", os.Args[0], "[-endpoint=uri] [-json] <getports|getroutes>")
		return 0
	}

	var conn net.Conn
	var err error
	u, parseErr := url.Parse(*endpoint)
	if parseErr == nil {
		switch strings.ToLower(u.Scheme) {
		case "unix":
			conn, err = net.Dial("unix", strings.TrimPrefix(*endpoint, "unix://"))
		case "tcp":
			conn, err = net.Dial("tcp", u.Host)
		default:
			conn, err = net.Dial("tcp", *endpoint)
		}
	} else {
		conn, err = net.Dial("tcp", *endpoint)
	}
	if err != nil {
		panic(err)
	}
	defer conn.Close()

	encoder := json.NewEncoder(conn)
	decoder := json.NewDecoder(conn)

	request := map[string]interface{}{"request": args[0]}
	if err := encoder.Encode(request); err != nil {
		panic(err)
	}

	var resp map[string]interface{}
	if err := decoder.Decode(&resp); err != nil {
		panic(err)
	}

	if resp["status"] == "error" {
		fmt.Println("admin socket returned an error:", resp["error"])
		return 1
	}

	if *injson {
		bs, _ := json.MarshalIndent(resp, "", "  ")
		fmt.Println(string(bs))
		return 0
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoFormatHeaders(false)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")
	table.SetNoWhiteSpace(true)
	table.SetAutoWrapText(false)

	switch strings.ToLower(args[0]) {
	case "getports":
		table.SetHeader([]string{"Index", "Group", "Routes"})
		for _, raw := range resp["ports"].([]interface{}) {
			p := raw.(map[string]interface{})
			routes, _ := p["routes"].([]interface{})
			strRoutes := make([]string, 0, len(routes))
			for _, r := range routes {
				strRoutes = append(strRoutes, fmt.Sprint(r))
			}
			table.Append([]string{
				fmt.Sprint(p["index"]),
				fmt.Sprint(p["group"]),
				strings.Join(strRoutes, ", "),
			})
		}
		table.Render()

	case "getroutes":
		table.SetHeader([]string{"Prefix", "Port"})
		for _, raw := range resp["routes"].([]interface{}) {
			r := raw.(map[string]interface{})
			table.Append([]string{fmt.Sprint(r["prefix"]), fmt.Sprint(r["port"])})
		}
		table.Render()

	default:
		fmt.Println(resp)
	}

	return 0
}
