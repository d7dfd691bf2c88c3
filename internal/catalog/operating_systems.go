package catalog

// Bundled Operating Systems syllabus. Serves as the fallback whenever AI
// content generation is unavailable.
var operatingSystems = &Subject{
	ID:      "operating-systems",
	Name:    "Operating Systems",
	Concept: "CPU Scheduling",
	SubConcepts: []SubConcept{
		{
			ID:            "process-basics",
			Title:         "Processes and the Ready Queue",
			Difficulty:    Easy,
			Prerequisites: []string{},
			Explanation: "A process is a program in execution, holding its own address space, registers, and program counter. " +
				"The operating system keeps runnable processes in a ready queue and the short-term scheduler picks which one gets the CPU next. " +
				"Each process cycles between CPU bursts and I/O bursts, and the scheduler's job is to keep the CPU busy while those bursts interleave.",
			SimplifiedExplanation: "Think of processes as customers in a bank queue. The teller (CPU) serves one customer at a time " +
				"while the rest wait in line. The queue manager (scheduler) decides who steps up next.",
		},
		{
			ID:            "time-quantum",
			Title:         "Time Quantum and Preemption",
			Difficulty:    Medium,
			Prerequisites: []string{"process-basics"},
			Explanation: "Round Robin is a preemptive scheduling algorithm built for time-sharing systems. " +
				"A small unit of time, called a time quantum or time slice, is defined, and the ready queue is treated as a circular queue. " +
				"The scheduler goes around the queue, allocating the CPU to each process for up to one quantum. " +
				"If a process finishes its burst early it releases the CPU voluntarily; otherwise a timer interrupt preempts it.",
			SimplifiedExplanation: "Imagine sharing one pizza with four friends. Everyone takes a fixed-size bite and passes the box on. " +
				"Too big a bite and the last friend waits forever; too small and you spend all night passing the box.",
		},
		{
			ID:            "context-switching",
			Title:         "Context Switching Overhead",
			Difficulty:    Medium,
			Prerequisites: []string{"time-quantum"},
			Explanation: "Switching the CPU between processes requires saving the state of the old process and loading the saved state of the new one. " +
				"This context switch is pure overhead: no useful work happens during it. " +
				"Round Robin performance depends heavily on the quantum size, because a tiny quantum means the CPU spends a large fraction of its time switching rather than executing.",
			SimplifiedExplanation: "Passing the pizza box costs time where nobody eats. The more often you pass it around, " +
				"the more of the evening is spent on handovers instead of dinner.",
		},
		{
			ID:            "scheduling-metrics",
			Title:         "Turnaround and Waiting Time",
			Difficulty:    Hard,
			Prerequisites: []string{"time-quantum", "context-switching"},
			Explanation: "Scheduling algorithms are compared by their metrics. Turnaround time is exit time minus arrival time: the full life of a request. " +
				"Waiting time is the total time spent sitting in the ready queue. Response time measures how quickly a process produces its first output. " +
				"Round Robin optimizes response time at the cost of turnaround time, which is generally worse than SJF.",
			SimplifiedExplanation: "Turnaround is how long your whole bank visit takes, door to door. Waiting time is just the part " +
				"spent standing in line. A fast first greeting (response time) doesn't mean you leave sooner.",
		},
	},
}

var quizzes = map[string]*Quiz{
	"process-basics": {
		MCQs: []MCQ{
			{
				Question:      "A process in the ready queue is:",
				Options:       []string{"Waiting for I/O", "Waiting for the CPU", "Terminated"},
				CorrectAnswer: 1,
			},
			{
				Question:      "Which scheduler selects a process from the ready queue?",
				Options:       []string{"Long-term scheduler", "Short-term scheduler", "Medium-term scheduler"},
				CorrectAnswer: 1,
			},
			{
				Question:      "A program in execution is called a:",
				Options:       []string{"Thread", "Process", "Job descriptor"},
				CorrectAnswer: 1,
			},
		},
		Conceptual: &ConceptualQuestion{
			Question: "Explain why a process alternates between CPU bursts and I/O bursts.",
			SampleAnswer: "Programs compute for a while, then need data from disk or the network. While the I/O device services the " +
				"request the process cannot use the CPU, so it blocks and the scheduler hands the CPU to another ready process.",
		},
	},
	"time-quantum": {
		MCQs: []MCQ{
			{
				Question:      "RR scheduling is most suitable for:",
				Options:       []string{"Real-time systems", "Time-sharing systems", "Batch systems"},
				CorrectAnswer: 1,
			},
			{
				Question:      "If the time quantum is very large, RR degenerates into:",
				Options:       []string{"SJF", "FCFS", "Priority"},
				CorrectAnswer: 1,
			},
			{
				Question:      "Preemption in RR is controlled by:",
				Options:       []string{"A timer", "Process priority", "I/O requests"},
				CorrectAnswer: 0,
			},
		},
		Conceptual: &ConceptualQuestion{
			Question: "What goes wrong when the time quantum is chosen too small?",
			SampleAnswer: "A tiny quantum forces a context switch after almost no useful work, so switching overhead dominates and " +
				"throughput collapses even though every process appears responsive.",
		},
	},
	"context-switching": {
		MCQs: []MCQ{
			{
				Question:      "Context switch overhead is highest in:",
				Options:       []string{"FCFS", "SJF", "Round Robin"},
				CorrectAnswer: 2,
			},
			{
				Question:      "During a context switch the CPU:",
				Options:       []string{"Runs the idle process", "Does no useful user work", "Services I/O"},
				CorrectAnswer: 1,
			},
			{
				Question:      "The saved execution state of a process lives in its:",
				Options:       []string{"Process control block", "Page table", "Ready queue entry"},
				CorrectAnswer: 0,
			},
		},
		Conceptual: &ConceptualQuestion{
			Question: "Describe what must be saved and restored during a context switch.",
			SampleAnswer: "The kernel saves the outgoing process's registers, program counter, and stack pointer into its process " +
				"control block, then loads the same state for the incoming process and switches address spaces.",
		},
	},
	"scheduling-metrics": {
		MCQs: []MCQ{
			{
				Question:      "Turnaround time is defined as:",
				Options:       []string{"Waiting time + burst time", "Burst time + I/O time", "Exit time - arrival time"},
				CorrectAnswer: 2,
			},
			{
				Question:      "RR is designed primarily to improve:",
				Options:       []string{"Response time", "Turnaround time", "Throughput"},
				CorrectAnswer: 0,
			},
			{
				Question:      "Turnaround time under RR is generally:",
				Options:       []string{"Better than SJF", "Worse than SJF", "Equal to SJF"},
				CorrectAnswer: 1,
			},
		},
		Conceptual: &ConceptualQuestion{
			Question: "Why can an algorithm with good response time still have poor turnaround time?",
			SampleAnswer: "Responding quickly to every process means slicing the CPU thinly, so each individual process takes longer " +
				"to finish. First output comes fast but total completion is delayed.",
		},
	},
}
