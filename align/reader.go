package align

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/op/go-logging"
)

// log is the global logging variable.
var log = logging.MustGetLogger("align")

// Layout of the query TSV. The aligned peptide lives in the aa_aln
// column; the accession names the record in error messages.
const (
	accessionField = 1
	peptideField   = 5
	minFields      = 6
)

// Scanner buffer. Aligned peptides can run long, so the default 64k
// token limit is not enough.
const maxLineLen = 16 * 1024 * 1024

// maybeGzip wraps rd so a gzip-compressed stream is transparently
// decompressed. Detection peeks at the two magic bytes, which also
// works when rd is standard input and cannot seek.
func maybeGzip(rd io.Reader) (io.Reader, error) {
	br := bufio.NewReader(rd)
	magic, err := br.Peek(2)
	if err == nil && magic[0] == 0x1f && magic[1] == 0x8b {
		log.Debug("Input is gzip compressed")
		return gzip.NewReader(br)
	}
	return br, nil
}

func newScanner(rd io.Reader) *bufio.Scanner {
	scanner := bufio.NewScanner(rd)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineLen)
	return scanner
}

// ReadReference reads the outgroup sequence. The input may be a bare
// sequence (possibly wrapped over several lines) or FASTA; in FASTA
// only the first record is used.
func ReadReference(rd io.Reader) ([]byte, error) {
	rd, err := maybeGzip(rd)
	if err != nil {
		return nil, err
	}
	var raw strings.Builder
	scanner := newScanner(rd)
	first := true
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if strings.HasPrefix(line, ">") {
			if first {
				first = false
				continue
			}
			break // second FASTA record, ignore the rest
		}
		first = false
		raw.WriteString(line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return normalizeSeq("reference", raw.String())
}

// ReadQueries reads tab-separated query records, one aligned peptide
// per line. With hasHeader set the first line is discarded. Record
// order is preserved.
func ReadQueries(rd io.Reader, hasHeader bool) ([]Sequence, error) {
	rd, err := maybeGzip(rd)
	if err != nil {
		return nil, err
	}
	var queries []Sequence
	scanner := newScanner(rd)
	nline := 0
	for scanner.Scan() {
		nline++
		line := scanner.Text()
		if hasHeader && nline == 1 {
			continue
		}
		if strings.TrimSpace(line) == "" {
			return nil, &MalformedRecordError{
				Record: fmt.Sprint("line ", nline),
				Reason: "empty line",
			}
		}
		fields := strings.Split(line, "\t")
		name := fmt.Sprint("line ", nline)
		if len(fields) > accessionField && fields[accessionField] != "" {
			name = fields[accessionField]
		}
		if len(fields) < minFields {
			return nil, &MalformedRecordError{
				Record: name,
				Reason: fmt.Sprintf("want at least %d tab-separated fields, got %d",
					minFields, len(fields)),
			}
		}
		seq, err := normalizeSeq(name, fields[peptideField])
		if err != nil {
			return nil, err
		}
		queries = append(queries, Sequence{Name: name, Seq: seq})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(queries) == 0 {
		return nil, &MalformedRecordError{Record: "query input", Reason: "no records"}
	}
	return queries, nil
}

// Load reads the reference file and the query file and checks that
// everything shares one alignment length. An empty query filename
// means standard input. Both inputs may be gzip compressed.
func Load(refFname, queryFname string, hasHeader bool) (*Alignment, error) {
	refFile, err := os.Open(refFname)
	if err != nil {
		return nil, err
	}
	defer refFile.Close()
	ref, err := ReadReference(refFile)
	if err != nil {
		return nil, err
	}

	var queryIn io.Reader = os.Stdin
	if queryFname != "" {
		queryFile, err := os.Open(queryFname)
		if err != nil {
			return nil, err
		}
		defer queryFile.Close()
		queryIn = queryFile
	}
	queries, err := ReadQueries(queryIn, hasHeader)
	if err != nil {
		return nil, err
	}
	return New(ref, queries)
}
