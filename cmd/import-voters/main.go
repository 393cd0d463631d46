// import-voters loads an electoral-roll CSV into the voters table.
//
// The CSV must carry a header row using the canonical column names
// (vid_no, age, gender, booth, fm_name_en, ...). Unknown header columns are
// rejected rather than silently dropped. Rows are inserted in one
// transaction; --dry-run parses and validates without writing.
package main

import (
	"context"
	"database/sql"
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
)

var (
	csvPath = flag.String("csv", "", "Path to the source CSV (required)")
	dsn     = flag.String("dsn", os.Getenv("DATABASE_URL"), "Postgres DSN (default: env DATABASE_URL)")
	dryRun  = flag.Bool("dry-run", false, "Parse + validate only; no DB writes")
	confirm = flag.Bool("confirm", false, "Required to perform the import")
)

// importColumns are the insertable voters columns, in insert order.
var importColumns = []string{
	"vid_no", "age", "gender", "caste", "relegion",
	"booth", "c_house_no", "polling_st_address", "street",
	"fm_name_en", "fm_name_v1", "lastname_en", "lastname_v1", "surname",
	"relation", "relationname", "relationnameen", "relationsurname", "relationsurnameen",
	"mobile_no", "comment_1", "comment_2", "sentiment",
}

var mobileRe = regexp.MustCompile(`^\d{10}$`)

type row map[string]string

func main() {
	_ = godotenv.Load(".env.local")
	flag.Parse()
	if *csvPath == "" {
		fatalf("--csv is required")
	}
	if *dsn == "" {
		fatalf("--dsn not provided and DATABASE_URL not set")
	}

	rows, err := loadCSV(*csvPath)
	if err != nil {
		fatalf("CSV error: %v", err)
	}

	if err := validateRows(rows); err != nil {
		fatalf("CSV validation failed: %v", err)
	}

	fmt.Printf("Loaded %d voters from %s\n", len(rows), *csvPath)

	if *dryRun {
		printPlan(rows)
		fmt.Println("Dry run complete. No changes made.")
		return
	}

	if !*confirm {
		fatalf("Refusing to run without --confirm. Add --dry-run to preview.")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	db, err := sql.Open("pgx", *dsn)
	if err != nil {
		fatalf("connect: %v", err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		fatalf("ping: %v", err)
	}

	tx, err := db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		fatalf("begin tx: %v", err)
	}
	defer func() {
		_ = tx.Rollback() // no-op if already committed
	}()

	inserted, err := insertRows(ctx, tx, rows)
	if err != nil {
		fatalf("insert: %v", err)
	}

	if err := tx.Commit(); err != nil {
		fatalf("commit: %v", err)
	}

	fmt.Printf("Imported %d voters.\n", inserted)
}

func loadCSV(path string) ([]row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	known := make(map[string]struct{}, len(importColumns))
	for _, c := range importColumns {
		known[c] = struct{}{}
	}
	for i, col := range header {
		header[i] = strings.TrimSpace(col)
		if _, ok := known[header[i]]; !ok {
			return nil, fmt.Errorf("unknown column %q in header", header[i])
		}
	}

	var rows []row
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		rec := make(row, len(header))
		for i, col := range header {
			if i < len(record) {
				rec[col] = strings.TrimSpace(record[i])
			}
		}
		rows = append(rows, rec)
	}
	return rows, nil
}

func validateRows(rows []row) error {
	for i, rec := range rows {
		line := i + 2 // header is line 1
		if rec["vid_no"] == "" {
			return fmt.Errorf("line %d: vid_no is empty", line)
		}
		if rec["booth"] == "" {
			return fmt.Errorf("line %d: booth is empty", line)
		}
		if s := rec["age"]; s != "" {
			if _, err := strconv.Atoi(s); err != nil {
				return fmt.Errorf("line %d: bad age %q", line, s)
			}
		}
		if s := rec["mobile_no"]; s != "" && !mobileRe.MatchString(s) {
			return fmt.Errorf("line %d: bad mobile_no %q", line, s)
		}
	}
	return nil
}

func printPlan(rows []row) {
	booths := make(map[string]int)
	for _, rec := range rows {
		booths[rec["booth"]]++
	}
	fmt.Printf("Plan: %d voters across %d booths\n", len(rows), len(booths))
}

func insertRows(ctx context.Context, tx *sql.Tx, rows []row) (int, error) {
	placeholders := make([]string, len(importColumns))
	for i := range importColumns {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}
	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf(
		"INSERT INTO voters (%s) VALUES (%s)",
		strings.Join(importColumns, ", "),
		strings.Join(placeholders, ", "),
	))
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	count := 0
	for _, rec := range rows {
		args := make([]any, len(importColumns))
		for i, col := range importColumns {
			switch col {
			case "age":
				n, _ := strconv.Atoi(rec[col])
				args[i] = n
			case "sentiment":
				if rec[col] == "" {
					args[i] = "neutral"
				} else {
					args[i] = rec[col]
				}
			default:
				args[i] = rec[col]
			}
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return count, fmt.Errorf("voter %s: %w", rec["vid_no"], err)
		}
		count++
	}
	return count, nil
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
