package catalog

// ConceptCheck is the 10-question gate at the top of the academic flow.
// Unlike sub-concept quizzes it is MCQ-only and scored as a flat percentage.
var ConceptCheck = []MCQ{
	{Question: "RR scheduling is most suitable for:", Options: []string{"Real-time systems", "Time-sharing systems", "Batch systems"}, CorrectAnswer: 1},
	{Question: "If time quantum is very large, RR becomes:", Options: []string{"SJF", "FCFS", "Priority"}, CorrectAnswer: 1},
	{Question: "Preemption in RR is controlled by:", Options: []string{"A Timer", "Process Priority", "I/O Request"}, CorrectAnswer: 0},
	{Question: "Context switch overhead is higher in:", Options: []string{"FCFS", "SJF", "Round Robin"}, CorrectAnswer: 2},
	{Question: "What happens if time quantum is too small?", Options: []string{"Starvation", "Low Throughput (High Overhead)", "Deadlock"}, CorrectAnswer: 1},
	{Question: "RR is designed to improve:", Options: []string{"Response Time", "Turnaround Time", "Throughput"}, CorrectAnswer: 0},
	{Question: "Ready queue in RR is treated as:", Options: []string{"Stack", "Priority Queue", "Circular Queue"}, CorrectAnswer: 2},
	{Question: "Is starvation possible in standard RR?", Options: []string{"Yes", "No", "Only for I/O bound"}, CorrectAnswer: 1},
	{Question: "New processes are added to the:", Options: []string{"Head of queue", "Tail of queue", "Middle of queue"}, CorrectAnswer: 1},
	{Question: "Turnaround time in RR is generally:", Options: []string{"Better than SJF", "Worse than SJF", "Equal to SJF"}, CorrectAnswer: 1},
}

// DrillBank is the timed competitive drill question set.
var DrillBank = []MCQ{
	{Question: "Which of the following scheduling algorithms is non-preemptive?", Options: []string{"Round Robin", "FCFS", "SRTF", "Multilevel Queue"}, CorrectAnswer: 1},
	{Question: "In Round Robin scheduling, the time quantum impacts:", Options: []string{"Context switching overhead", "Deadlock frequency", "Memory usage", "I/O bound processes"}, CorrectAnswer: 0},
	{Question: "What is the main disadvantage of SJF scheduling?", Options: []string{"Low throughput", "High complexity", "Starvation of long processes", "Frequent interrupts"}, CorrectAnswer: 2},
	{Question: "Which scheduler selects a process from the ready queue?", Options: []string{"Long-term scheduler", "Short-term scheduler", "Medium-term scheduler", "Dispatcher"}, CorrectAnswer: 1},
	{Question: "Turnaround time is defined as:", Options: []string{"Waiting time + Burst time", "Burst time + I/O time", "Exit time - Arrival time", "Wait time - Arrival time"}, CorrectAnswer: 2},
}
