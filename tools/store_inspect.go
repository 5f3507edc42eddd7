package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/fxamacker/cbor/v2"
	"github.com/mama165/sdk-go/database"
	"github.com/olekukonko/tablewriter"
)

// Read-only dump of the chat store, for debugging sessions without
// attaching a debugger to the server.
func main() {
	dbPath := flag.String("db", database.DefaultPath, "Path to badger DB")
	prefix := flag.String("prefix", "msg:", "Prefix to scan (msg:, ticket:, user:)")
	flag.Parse()

	db, err := openDB(*dbPath)
	if err != nil {
		log.Fatal("Error while opening Badger: ", err)
	}
	defer db.Close()

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Key", "Time", "Channel", "Sender", "Body"})
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")

	err = db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefixBytes := []byte(*prefix)
		for it.Seek(prefixBytes); it.ValidForPrefix(prefixBytes); it.Next() {
			item := it.Item()
			rawKey := string(item.Key())

			err := item.Value(func(v []byte) error {
				table.Append(toRow(rawKey, v))
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Fatal(err)
	}

	table.Render()
}

// toRow decodes a CBOR value by key family. Unknown or corrupt values
// still get a row, so one bad entry never hides the rest of the scan.
func toRow(key string, value []byte) []string {
	var fields struct {
		Sender    string `cbor:"sender"`
		Body      string `cbor:"body"`
		Channel   string `cbor:"channel"`
		Requester string `cbor:"requester"`
		SentAt    int64  `cbor:"sent_at"`
		OpenedAt  int64  `cbor:"opened_at"`
	}
	if err := cbor.Unmarshal(value, &fields); err != nil {
		return []string{key, "", "", "", fmt.Sprintf("<undecodable: %v>", err)}
	}

	at := fields.SentAt
	if at == 0 {
		at = fields.OpenedAt
	}
	when := ""
	if at != 0 {
		when = time.Unix(0, at).UTC().Format("2006-01-02 15:04:05")
	}

	body := fields.Body
	if len(body) > 60 {
		body = body[:60] + "…"
	}

	channel := fields.Channel
	if channel == "" {
		channel = fields.Requester
	}
	return []string{key, when, channel, fields.Sender, body}
}

func openDB(path string) (*badger.DB, error) {
	opts := badger.DefaultOptions(path).
		WithReadOnly(true).
		WithLogger(nil).
		WithBypassLockGuard(true).
		WithValueLogFileSize(10 * 1024 * 1024)
	return badger.Open(opts)
}
