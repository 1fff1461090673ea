package report

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/viant/afs"
	"github.com/viant/afs/file"

	"github.com/nluthra2001/mlq/internal/scheduler"
)

// DefaultFile is where the CLI writes the result log.
const DefaultFile = "mlq001_output_log.txt"

var ErrOutputWrite = errors.New("cannot write result log")

var header = []string{"Etiqueta", "BT", "AT", "CT", "TAT", "WT", "RT", "Q", "Prioridad"}

// Summary holds the aggregates of a finished run.
type Summary struct {
	Processes         int
	AverageTurnaround float64
	AverageWaiting    float64
	AverageResponse   float64
	Throughput        float64
	Utilization       float64
}

func Summarize(procs []scheduler.Process, makespan int64) Summary {
	s := Summary{Processes: len(procs)}
	if len(procs) == 0 {
		return s
	}
	var turnaround, waiting, response, busy float64
	for i := range procs {
		turnaround += float64(procs[i].TurnaroundTime)
		waiting += float64(procs[i].WaitingTime)
		response += float64(procs[i].ResponseTime)
		busy += float64(procs[i].BurstOriginal)
	}
	count := float64(len(procs))
	s.AverageTurnaround = turnaround / count
	s.AverageWaiting = waiting / count
	s.AverageResponse = response / count
	if makespan > 0 {
		s.Throughput = count / float64(makespan)
		s.Utilization = busy / float64(makespan)
	}
	return s
}

// WriteLog writes the tab-separated result table followed by the averages.
func WriteLog(w io.Writer, procs []scheduler.Process) error {
	if _, err := fmt.Fprintln(w, strings.Join(header, "\t")); err != nil {
		return err
	}
	for i := range procs {
		p := &procs[i]
		row := []string{
			p.Label,
			fmt.Sprint(p.BurstOriginal),
			fmt.Sprint(p.ArrivalTime),
			fmt.Sprint(p.CompletionTime),
			fmt.Sprint(p.TurnaroundTime),
			fmt.Sprint(p.WaitingTime),
			fmt.Sprint(p.ResponseTime),
			fmt.Sprint(int(p.Level)),
			fmt.Sprint(p.Priority),
		}
		if _, err := fmt.Fprintln(w, strings.Join(row, "\t")); err != nil {
			return err
		}
	}

	s := Summarize(procs, 0)
	_, err := fmt.Fprintf(w, "\n--- MÉTRICAS DE RENDIMIENTO ---\nTAT Promedio: %.2f\nWT Promedio: %.2f\nRT Promedio: %.2f\n",
		s.AverageTurnaround, s.AverageWaiting, s.AverageResponse)
	return err
}

// Save renders the result log in memory and uploads it to URL in one write.
func Save(ctx context.Context, fs afs.Service, URL string, procs []scheduler.Process) error {
	var buf bytes.Buffer
	if err := WriteLog(&buf, procs); err != nil {
		return fmt.Errorf("%w: %v", ErrOutputWrite, err)
	}
	if err := fs.Upload(ctx, URL, file.DefaultFileOsMode, &buf); err != nil {
		return fmt.Errorf("%w %s: %v", ErrOutputWrite, URL, err)
	}
	return nil
}
