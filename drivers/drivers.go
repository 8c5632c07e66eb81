// Builds upon the soc packages to provide common interfaces and
// higher-level features. Interrupt-driven drivers install their handlers
// through an irq.Table and hand work to tasks via channels; polled ones
// pace themselves off the executor's idle stream. None of them may
// outlive the interrupt scope they were set up in.
package drivers
