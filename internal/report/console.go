package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/nluthra2001/mlq/internal/scheduler"
)

// Render prints the trace, a Gantt chart and the schedule table of a run.
func Render(w io.Writer, title string, res *scheduler.Result) {
	outputTitle(w, title)
	outputTrace(w, res)
	outputGantt(w, res.Trace)
	outputSchedule(w, res.Processes, Summarize(res.Processes, res.Makespan))
}

func outputTitle(w io.Writer, title string) {
	_, _ = fmt.Fprintln(w, strings.Repeat("-", len(title)*2))
	_, _ = fmt.Fprintln(w, strings.Repeat(" ", len(title)/2), title)
	_, _ = fmt.Fprintln(w, strings.Repeat("-", len(title)*2))
}

func outputTrace(w io.Writer, res *scheduler.Result) {
	_, _ = fmt.Fprintf(w, "--- MLQ DISPATCHER START (RR q=%d, RR q=%d, RR q=%d) ---\n",
		scheduler.Level1.Quantum(), scheduler.Level2.Quantum(), scheduler.Level3.Quantum())
	for _, ev := range res.Trace {
		switch ev.Kind {
		case scheduler.EventIdle:
			if ev.Stop > ev.Start {
				_, _ = fmt.Fprintf(w, "[T=%d to %d] IDLE: waiting for process %s\n", ev.Start, ev.Stop, ev.Label)
			}
		case scheduler.EventDispatch:
			_, _ = fmt.Fprintf(w, "[T=%d] DISPATCH: process %s (Q%d, q=%d) for %du (remaining %d)\n",
				ev.Start, ev.Label, ev.Level, ev.Quantum, ev.Stop-ev.Start, ev.Remaining)
		case scheduler.EventComplete:
			_, _ = fmt.Fprintf(w, "[T=%d] COMPLETED: process %s\n", ev.Stop, ev.Label)
		}
	}
	_, _ = fmt.Fprintf(w, "--- MLQ DISPATCHER END (total time %d) ---\n\n", res.Makespan)
}

func outputGantt(w io.Writer, trace []scheduler.Event) {
	var slices []scheduler.Event
	for _, ev := range trace {
		if ev.Kind == scheduler.EventComplete || ev.Stop == ev.Start {
			continue
		}
		slices = append(slices, ev)
	}

	_, _ = fmt.Fprintln(w, "Gantt schedule")
	_, _ = fmt.Fprint(w, "|")
	for i := range slices {
		name := slices[i].Label
		if slices[i].Kind == scheduler.EventIdle {
			name = "IDLE"
		}
		padding := strings.Repeat(" ", max(8-len(name), 0)/2)
		_, _ = fmt.Fprint(w, padding, name, padding, "|")
	}
	_, _ = fmt.Fprintln(w)
	for i := range slices {
		_, _ = fmt.Fprint(w, fmt.Sprint(slices[i].Start), "\t")
		if len(slices)-1 == i {
			_, _ = fmt.Fprint(w, fmt.Sprint(slices[i].Stop))
		}
	}
	_, _ = fmt.Fprintf(w, "\n\n")
}

func outputSchedule(w io.Writer, procs []scheduler.Process, s Summary) {
	rows := make([][]string, len(procs))
	for i := range procs {
		p := &procs[i]
		rows[i] = []string{
			p.Label,
			fmt.Sprint(int(p.Level)),
			fmt.Sprint(p.Priority),
			fmt.Sprint(p.BurstOriginal),
			fmt.Sprint(p.ArrivalTime),
			fmt.Sprint(p.CompletionTime),
			fmt.Sprint(p.TurnaroundTime),
			fmt.Sprint(p.WaitingTime),
			fmt.Sprint(p.ResponseTime),
		}
	}

	_, _ = fmt.Fprintln(w, "Schedule table")
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Label", "Queue", "Priority", "Burst", "Arrival", "Exit", "Turnaround", "Wait", "Response"})
	table.AppendBulk(rows)
	table.SetFooter([]string{"", "", "", "",
		fmt.Sprintf("Utilization\n%.2f%%", s.Utilization*100),
		fmt.Sprintf("Throughput\n%.2f/t", s.Throughput),
		fmt.Sprintf("Average\n%.2f", s.AverageTurnaround),
		fmt.Sprintf("Average\n%.2f", s.AverageWaiting),
		fmt.Sprintf("Average\n%.2f", s.AverageResponse)})
	table.Render()
}
